package cmd

import (
	"log/slog"
	"os"

	"github.com/shiroyk/domevent/config"
	"github.com/shiroyk/domevent/logger"
	"github.com/spf13/cobra"
)

var (
	configArg string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:          "domevent",
	Short:        "domevent runs scripts attaching event listeners to an HTML document.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg, err := config.ReadConfig(configArg)
		if err != nil {
			slog.Error("error reading config file", "error", err)
			cfg = config.DefaultConfig()
		}
		slog.SetDefault(newLogger(cfg.Log))
		cmd.SetContext(config.NewContext(cmd.Context(), cfg))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func newLogger(cfg config.Log) *slog.Logger {
	level := cfg.SlogLevel()
	if debugMode {
		level = slog.LevelDebug
	}
	handler := logger.NewConsoleHandler(os.Stderr, level)
	if cfg.NoColor {
		handler = handler.WithoutColor()
	}
	return slog.New(handler)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configArg, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "output the debug log")
}

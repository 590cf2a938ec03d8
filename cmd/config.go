package cmd

import (
	"errors"
	"os"

	"github.com/shiroyk/domevent/config"
	"github.com/spf13/cobra"
)

var configGenArg string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "domevent configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configGenArg != "" {
			return writeDiskConfig(configGenArg)
		}
		cmd.Println(configArg)
		return nil
	},
}

func writeDiskConfig(path string) error {
	file, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err = os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		return errors.New("configuration file is already exists")
	}
	return config.WriteConfig(file, config.DefaultConfig())
}

func init() {
	configCmd.Flags().StringVarP(&configGenArg, "gen", "g", "", "generate default configuration file")
	rootCmd.AddCommand(configCmd)
}

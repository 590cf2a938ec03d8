package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/shiroyk/domevent/api"
	"github.com/shiroyk/domevent/config"
	"github.com/spf13/cobra"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve <script>",
	Short: "run a script against a document and serve its events over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if serveAddress != "" {
			cfg.API.Address = serveAddress
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return serve(ctx, args[0], cfg.API)
	},
}

func serve(ctx context.Context, scriptPath string, cfg config.API) error {
	logger := slog.Default()
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	session, err := newSession(context.Background(), htmlPath, logger)
	if err != nil {
		return err
	}
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	}
	_, err = session.VM.RunString(runCtx, string(script))
	cancel()
	if err != nil {
		return err
	}

	e := api.Server(api.Options{
		Logger:  logger,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	}, session)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server started", "address", cfg.Address, "events", session.Registry.Len())
		errCh <- e.Start(cfg.Address)
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("api server shutting down")
	return e.Shutdown(shutdown)
}

func init() {
	serveCmd.Flags().StringVar(&htmlPath, "html", "", "html file path, a blank page if empty")
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address, the config api.address if empty")
	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowopt/siteaudit/internal/api"
	"github.com/flowopt/siteaudit/internal/audit"
	"github.com/flowopt/siteaudit/internal/fetch"
	"github.com/flowopt/siteaudit/internal/logging"
)

// newServeCmd creates the 'serve' subcommand, which exposes audits over an
// HTTP API with Prometheus metrics.
func newServeCmd(flags *rootFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			fetcher := fetch.New(fetch.Config{
				UserAgent: cfg.Audit.UserAgent,
				Timeout:   cfg.Timeout(),
			}, logger)
			auditor := audit.New(fetcher, audit.Config{
				Timeout:   cfg.Timeout(),
				UserAgent: cfg.Audit.UserAgent,
			}, logger)
			server := api.NewServer(auditor, cfg, logger)

			return serve(cmd.Context(), server.Handler(), cfg.Server.Port, logger)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	return cmd
}

func serve(ctx context.Context, handler http.Handler, port int, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	}
}

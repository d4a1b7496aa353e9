package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/api"
	promexport "github.com/MrEthical07/sessionauth/metrics/export/prometheus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		usersFile  string
		logLevel   string
		trustProxy bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flags win; the environment is read here so .env values apply.
			if addr == "" {
				addr = envOr("API_ADDR", "0.0.0.0:5000")
			}
			if usersFile == "" {
				usersFile = os.Getenv("USERS_FILE")
			}
			if logLevel == "" {
				logLevel = envOr("LOG_LEVEL", "info")
			}
			logger := newLogger(logLevel)

			cfg, err := sessionauth.ConfigFromEnv()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			in, err := setupInfra(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer in.Close()

			dir, err := loadUsers(usersFile, logger)
			if err != nil {
				return err
			}

			engine, err := buildEngine(cfg, in, dir, logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			opts := api.Options{Logger: logger, TrustProxy: trustProxy}
			if cfg.Metrics.Enabled {
				if opts.Metrics, err = promexport.Handler(engine); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(engine, opts),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", slog.String("addr", addr), slog.String("auth_type", string(engine.Kind())))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $API_ADDR or 0.0.0.0:5000)")
	cmd.Flags().StringVar(&usersFile, "users", "", "JSON file of seed users (default $USERS_FILE)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL or info)")
	cmd.Flags().BoolVar(&trustProxy, "trust-proxy", false, "take the client IP from X-Forwarded-For")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

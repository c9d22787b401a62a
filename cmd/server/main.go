package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lixing-Zhang/platos-api/internal/config"
	"github.com/Lixing-Zhang/platos-api/internal/repository"
	"github.com/Lixing-Zhang/platos-api/internal/server"
	"github.com/Lixing-Zhang/platos-api/internal/service"
	"github.com/Lixing-Zhang/platos-api/pkg/logger"
	"github.com/Lixing-Zhang/platos-api/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platos-api",
		Short: "REST API for managing dishes",
		Long: `platos-api serves a CRUD API over an in-memory collection of dishes.

Configuration is read from flags, environment variables and .env files,
in that order of precedence. Environment variable names are case-insensitive
(APP_TITLE, HOST, PORT, DEBUG, ALLOWED_ORIGINS, LOG_LEVEL, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(config.KeyHost, "", "address to bind (env HOST)")
	flags.Int(config.KeyPort, 0, "port to listen on (env PORT)")
	flags.Bool(config.KeyDebug, false, "enable debug logging and the /debug profiler (env DEBUG)")
	flags.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.String("log-format", "", "json or text (env LOG_FORMAT)")

	// only flags the user actually set override env and defaults
	_ = v.BindPFlag(config.KeyHost, flags.Lookup(config.KeyHost))
	_ = v.BindPFlag(config.KeyPort, flags.Lookup(config.KeyPort))
	_ = v.BindPFlag(config.KeyDebug, flags.Lookup(config.KeyDebug))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize structured logger
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting "+cfg.App.Title,
		"description", cfg.App.Description,
		"version", cfg.App.Version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"debug", cfg.Debug,
		"log_level", cfg.LogLevel,
		"allowed_origins", cfg.AllowedOrigins,
	)

	m := metrics.New()

	// Initialize repository, service and router
	dishRepo := repository.NewInMemoryDishRepository()
	dishService := service.NewDishService(dishRepo, m)
	handler := server.NewRouter(cfg, dishService, m, log)

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server failed to start", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/mathrw/internal/config"
	"github.com/roach88/mathrw/internal/engine"
	"github.com/roach88/mathrw/internal/history"
	"github.com/roach88/mathrw/internal/rules"
	"github.com/roach88/mathrw/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen   string
	RulesDir string
	Database string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the rewrite suggestion HTTP server",
		Long: `Start the HTTP server exposing the rewrite engine.

Loads the rule catalog from the configured rules directory, optionally opens
the request journal, and serves until interrupted.

Example:
  mathrw serve --listen :5000 --rules ./rules
  mathrw serve --config /etc/mathrw/config.yaml --db ./history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "rules directory (overrides config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load config", Err: err}
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.RulesDir != "" {
		cfg.RulesDir = opts.RulesDir
	}
	if opts.Database != "" {
		cfg.HistoryDB = opts.Database
	}

	logger, err := buildLogger(cfg.LogLevel, opts.Verbose)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to build logger", Err: err}
	}
	defer logger.Sync()

	catalog := rules.LoadDir(cfg.RulesDir, logger)
	if catalog.Len() == 0 {
		return &ExitError{Code: ExitCommandError, Message: "no rules loaded from " + cfg.RulesDir}
	}

	var journal *history.Journal
	if cfg.HistoryDB != "" {
		journal, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "failed to open history database", Err: err}
		}
		defer journal.Close()
	}

	srv, err := server.New(engine.NewSuggester(catalog, logger), journal, cfg.AllowedOriginPattern, logger)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to build server", Err: err}
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen), zap.Int("rules", catalog.Len()))
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return &ExitError{Code: ExitCommandError, Message: "server failed", Err: err}
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return &ExitError{Code: ExitCommandError, Message: "shutdown failed", Err: err}
		}
	}

	return nil
}

// buildLogger constructs the process logger. --verbose forces debug level.
func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

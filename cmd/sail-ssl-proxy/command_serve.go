package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/reddec/sail-ssl-proxy/gate"
	"github.com/reddec/sail-ssl-proxy/internal"
	"go.uber.org/zap"
)

type CommandServe struct {
	gate.Config
	AppURL           string        `long:"app-url" env:"APP_URL" description:"Application URL, its host is authorized when no domains configured"`
	GracefulShutdown time.Duration `long:"graceful-shutdown" env:"SSL_PROXY_GRACEFUL_SHUTDOWN" description:"Interval before server shutdown" default:"5s"`
}

func (cmd *CommandServe) Execute([]string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cfg := cmd.Config
	if len(cfg.AuthorizedDomains) == 0 {
		if host := gate.HostOf(cmd.AppURL); host != "" {
			cfg.AuthorizedDomains = []string{host}
		}
	}
	logger.Info("starting authorization gate", zap.Object("config", cfg), zap.String("bind", cfg.Bind))

	ctx := internal.WithLogger(global, logger)
	server := gate.NewServer(ctx, cfg, gate.New(cfg, logger), logger)

	task := internal.Spawn(ctx, func(ctx context.Context) error {
		if server.TLSConfig != nil {
			return server.ListenAndServeTLS("", "")
		}
		return server.ListenAndServe()
	})

	select {
	case <-ctx.Done():
	case <-task.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.GracefulShutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	if err := task.Stop(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", cfg.Bind, err)
	}
	return nil
}

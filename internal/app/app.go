// Package app wires the room registry, the chat transport, and the
// status API into one runnable unit.
package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/core"
	transporthttp "github.com/hjang25/roomchat/internal/transport/http"
	"github.com/hjang25/roomchat/internal/transport/tcp"
)

// App owns the server's long-lived state for the process lifetime.
type App struct {
	chat            *tcp.Server
	status          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	registry := core.NewRegistry()

	a := &App{
		chat:            tcp.NewServer(registry, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
	if cfg.StatusAddr != "" {
		a.status = transporthttp.NewServer(registry, cfg, logger)
	}
	return a
}

// Run starts both listeners and blocks until ctx is cancelled or the
// chat listener fails. The status API is best-effort; its failure is
// logged but does not stop the chat server.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.status != nil {
		go func() {
			a.log.Info().Str("addr", a.status.Addr).Msg("status api listening")
			if err := a.status.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
				a.log.Warn().Err(err).Msg("status api stopped")
			}
		}()
	}

	chatErr := make(chan error, 1)
	go func() {
		chatErr <- a.chat.Serve(ctx)
	}()

	var err error
	select {
	case err = <-chatErr:
	case <-ctx.Done():
		err = <-chatErr
	}

	if a.status != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancelShutdown()
		if sdErr := a.status.Shutdown(shutdownCtx); sdErr != nil {
			a.log.Warn().Err(sdErr).Msg("status api shutdown")
		}
	}

	return err
}

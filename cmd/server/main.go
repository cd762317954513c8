package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hjang25/roomchat/internal/app"
	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/log"
)

func main() {
	var (
		configPath string
		overrides  config.Config
	)
	flag.StringVar(&configPath, "config", "", "path to config.yaml")
	flag.StringVar(&overrides.ListenAddr, "addr", "", "chat listen address")
	flag.StringVar(&overrides.StatusAddr, "status-addr", "", "status API address (empty keeps config value)")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn, or error")
	flag.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flag.Parse()

	bootLogger := log.New(overrides.LogLevel)
	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", path).Msg("load config")
	}
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("config", path).Msg("starting roomchat server")
	if err := app.New(&cfg, logger).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}

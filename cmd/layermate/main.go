// Package main is the entry point for the layermate avatar overlay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/app"
	"github.com/Faultbox/layermate/internal/config"
	"github.com/Faultbox/layermate/internal/engine/window"
	"github.com/Faultbox/layermate/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("layermate failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("layermate closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== layermate ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	wcfg := window.ConfigFrom(cfg.Window)
	snapshot := config.SnapshotPath()
	if snapshot != "" {
		// Nothing is shown; the window only provides the context
		wcfg.Width, wcfg.Height = 1, 1
		wcfg.VSync = false
	}

	win, err := window.Open(cfg.Window.Backend, wcfg)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	if snapshot != "" {
		_, err := app.Snapshot(cfg, win, app.GLDevice, app.GLTarget, snapshot)
		return err
	}

	a, err := app.New(cfg, win, app.GLDevice)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

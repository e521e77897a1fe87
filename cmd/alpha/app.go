package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aristath/alpha/internal/config"
	"github.com/aristath/alpha/internal/di"
	"github.com/aristath/alpha/pkg/logger"
	"github.com/rs/zerolog"
)

// stdout receives command output; tests swap it for a buffer
var stdout io.Writer = os.Stdout

// app is the wired application a command operates on
type app struct {
	cfg       *config.Config
	container *di.Container
	log       zerolog.Logger
}

// loadConfig reads the environment. Logs go to stderr so they never mix
// with rendered output.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: os.Stderr,
	})
	return cfg, log, nil
}

// openApp loads configuration and wires the container. Callers must Close it.
func openApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	container, _, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DBPath, err)
	}

	return &app{cfg: cfg, container: container, log: log}, nil
}

func (a *app) Close() error {
	return a.container.Close()
}

// printMarkdown renders md with the configured theme
func (a *app) printMarkdown(md string) error {
	return printMarkdown(stdout, md, a.cfg.UI.Theme)
}

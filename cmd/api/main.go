// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Trading Hub HTTP API.
//
// # Commands
//
//   - serve (default): run migrations and start the HTTP server.
//   - migrate up|down|version: manage the database schema.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tradehub/internal/platform/config"
	"github.com/taibuivan/tradehub/internal/platform/constants"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Trading Hub API server",
		Version: constants.AppVersion,
		Long: `Trading Hub API authorizes requests from the hub's web clients,
keeps member sessions alive and walks new members through onboarding.

Configuration is read from the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Everything logged carries the app name.
func newLogger(debug, withSource bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: withSource})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	return log
}

// loadConfig reads the environment and returns a logger matching its debug flag.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		// Still log structured JSON for a startup failure.
		newLogger(false, false).Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		return nil, nil, err
	}

	log := newLogger(cfg.Debug, cfg.IsDevelopment())
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("identity_backend", cfg.IdentityBackend),
	)

	return cfg, log, nil
}

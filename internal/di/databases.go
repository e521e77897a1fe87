// Package di provides dependency injection for the database connection.
package di

import (
	"fmt"

	"github.com/aristath/alpha/internal/config"
	"github.com/aristath/alpha/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabase opens the database file and brings its schema up to date
func InitializeDatabase(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path: cfg.DBPath,
		Name: "alpha",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("path", db.Path()).Msg("Database initialized")

	return &Container{DB: db}, nil
}

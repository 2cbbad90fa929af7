// Package cli implements the paisabuddy subcommands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/trogers1052/paisabuddy/internal/config"
	"github.com/trogers1052/paisabuddy/internal/database"
	"github.com/trogers1052/paisabuddy/internal/logging"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&serveCmd{}, "server")

	c.Register(&migrateCmd{}, "database")
	c.Register(&seedCmd{}, "database")

	c.Register(&refreshPricesCmd{}, "market")
}

// env is what every command needs before doing its work
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.DB
}

// setup loads configuration, builds the logger and connects to PostgreSQL
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jstrick/ritual/internal/cli"
	"github.com/jstrick/ritual/internal/config"
	"github.com/jstrick/ritual/internal/constants"
	"github.com/jstrick/ritual/internal/engine"
	appErrors "github.com/jstrick/ritual/internal/errors"
	"github.com/jstrick/ritual/internal/identity"
	"github.com/jstrick/ritual/internal/logger"
	"github.com/jstrick/ritual/internal/storage"
	"github.com/jstrick/ritual/internal/storage/memory"
	"github.com/jstrick/ritual/internal/storage/postgres"
	"github.com/jstrick/ritual/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool `help:"Enable debug logging to stderr."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize storage."`
	Habit   cli.HabitCmd   `cmd:"" help:"Manage habits and completion tracking."`
	Goal    cli.GoalCmd    `cmd:"" help:"Manage goals."`
	Checkin cli.CheckinCmd `cmd:"" help:"Record and show mood check-ins."`
	Watch   cli.WatchCmd   `cmd:"" help:"Stream change notifications from the store."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with recurrence schedules and streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	userID := identity.Resolve(cfg.User)

	var store storage.Provider
	switch cfg.ResolveBackend() {
	case config.BackendPostgres:
		if storage.HasEmbeddedCredentials(cfg.Path) {
			appErrors.Fatal(fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed; use the environment or .pgpass"))
		}
		store = postgres.New(cfg.Path, userID)
	case config.BackendMemory:
		store = memory.New()
	default:
		store = sqlite.New(cfg.Path, userID)
	}

	appCtx := &cli.Context{
		Store:  store,
		Engine: engine.New(store),
		Config: cfg,
		Now:    time.Now,
	}

	// Every command except init expects an existing store.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(context.Background()); err != nil {
			appErrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		appErrors.Fatal(err)
	}
}

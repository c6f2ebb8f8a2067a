package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"route-timing-service/internal/app"
	"route-timing-service/internal/config"
	"route-timing-service/internal/platform/obs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is the per-invocation state shared by subcommands.
type env struct {
	dbPath   string
	logLevel string

	cfg     *config.Config
	logger  *zap.Logger
	storage *app.Storage
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Inspect and edit daily technician routes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
	}
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "Log level")

	root.AddCommand(
		newInitCmd(e),
		newSeedCmd(e),
		newStopsCmd(e),
		newMetricsCmd(e),
		newRouteCmd(e),
	)
	return root
}

func (e *env) open(ctx context.Context) error {
	overrides := map[string]any{"log_level": e.logLevel}
	if e.dbPath != "" {
		overrides["db_path"] = e.dbPath
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}
	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	e.cfg, e.logger, e.storage = cfg, logger, storage
	return nil
}

func (e *env) close() error {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
	if e.storage == nil {
		return nil
	}
	return e.storage.Close()
}

// today is the default --date in the configured time zone.
func (e *env) today() string {
	loc, err := e.cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format("2006-01-02")
}

func (e *env) date(flag string) string {
	if flag == "" {
		return e.today()
	}
	return flag
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"route-timing-service/internal/adapters/repositories"
	"route-timing-service/internal/api/dto"
	"route-timing-service/internal/app"
	"route-timing-service/internal/config"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"

	"github.com/spf13/cobra"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// OpenStorage already ran every schema migration.
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s, store=%s)\n", e.cfg.DBPath, e.cfg.StoreDriver)
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load contacts, suppliers and jobs from a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required (or set SEED_PATH)")
			}
			seed, err := repositories.ReadSeed(file)
			if err != nil {
				return err
			}
			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}
			if err := repositories.ApplySeed(cmd.Context(), e.storage.SQLite, seed, loc); err != nil {
				return fmt.Errorf("seed %q: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d contacts, %d suppliers, %d jobs\n",
				len(seed.Contacts), len(seed.Suppliers), len(seed.Jobs))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", config.Get("SEED_PATH", ""), "Seed file (.json, .yaml)")
	return cmd
}

func newStopsCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "stops",
		Short: "Print the day's stop sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes, err := app.NewDayRoutes(e.cfg, e.storage, nil, e.logger)
			if err != nil {
				return err
			}
			day := e.date(date)
			_, stops, err := routes.Stops(cmd.Context(), day)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.StopsResponse{Date: day, Stops: dto.FromStops(stops)})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newMetricsCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute arrival times, idle time and leave-by for the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway, err := app.NewGateway(e.cfg, e.storage.Geocodes, e.logger)
			if err != nil {
				return err
			}
			routes, err := app.NewDayRoutes(e.cfg, e.storage, gateway, e.logger)
			if err != nil {
				return err
			}
			snap, err := routes.Metrics(cmd.Context(), e.date(date))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.MetricsFrom(snap))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newRouteCmd(e *env) *cobra.Command {
	route := &cobra.Command{
		Use:   "route",
		Short: "Manage saved routes",
	}

	var showDate string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved route for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			saved, err := e.storage.Routes.Load(cmd.Context(), e.date(showDate))
			if errors.Is(err, ports.ErrRouteNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved route; the default sequence is used")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
	showCmd.Flags().StringVar(&showDate, "date", "", "Day (YYYY-MM-DD, default today)")

	var clearDate string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop the saved route so the day reverts to the default sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := e.date(clearDate)
			if _, err := domain.ParseDay(day, nil); err != nil {
				return err
			}
			if err := e.storage.Routes.Clear(cmd.Context(), day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared saved route for %s\n", day)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&clearDate, "date", "", "Day (YYYY-MM-DD, default today)")

	route.AddCommand(showCmd, clearCmd)
	return route
}

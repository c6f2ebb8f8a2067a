package services

import (
	"context"
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"time"

	"go.uber.org/zap"
)

// DayRoutes wires the route builder, the saved route store and the metrics
// orchestrator for callers that work in terms of YYYY-MM-DD day keys.
type DayRoutes struct {
	Directory    ports.Directory
	Store        ports.RouteStore
	Orchestrator *Orchestrator
	HomeAddress  string
	Location     *time.Location
	Logger       *zap.Logger
}

// Stops returns the day's stop sequence, reconstructed from the saved route
// when there is one.
func (d *DayRoutes) Stops(ctx context.Context, dayKey string) (_ time.Time, _ []domain.Stop, err error) {
	defer obs.Time(ctx, d.logger(), "routes.Stops")(&err)

	day, err := domain.ParseDay(dayKey, d.Location)
	if err != nil {
		return time.Time{}, nil, err
	}

	in, err := d.buildInput(ctx, day)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("day stops %s: %w", dayKey, err)
	}

	return day, BuildStops(in), nil
}

// Metrics rebuilds the day's stops and runs one metrics cycle over them.
func (d *DayRoutes) Metrics(ctx context.Context, dayKey string) (Snapshot, error) {
	day, stops, err := d.Stops(ctx, dayKey)
	if err != nil {
		return Snapshot{}, err
	}

	snap, published := d.Orchestrator.Recompute(ctx, day, stops)
	if !published {
		d.logger().Debug("metrics cycle superseded", zap.String("day", dayKey), zap.Uint64("gen", snap.Generation))
	}
	return snap, nil
}

// SaveRoute persists an explicit stop order for the day.
func (d *DayRoutes) SaveRoute(ctx context.Context, dayKey string, route domain.SavedRoute) error {
	if _, err := domain.ParseDay(dayKey, d.Location); err != nil {
		return err
	}
	if err := route.Validate(); err != nil {
		return err
	}
	if err := d.Store.Save(ctx, dayKey, route); err != nil {
		return fmt.Errorf("save route %s: %w", dayKey, err)
	}
	return nil
}

// ClearRoute drops the saved route so the day reverts to the default sequence.
func (d *DayRoutes) ClearRoute(ctx context.Context, dayKey string) error {
	if _, err := domain.ParseDay(dayKey, d.Location); err != nil {
		return err
	}
	if err := d.Store.Clear(ctx, dayKey); err != nil {
		return fmt.Errorf("clear route %s: %w", dayKey, err)
	}
	return nil
}

// AddSupplier inserts a supplier errand into the day's route and saves it.
func (d *DayRoutes) AddSupplier(ctx context.Context, dayKey, supplierID string, position int) ([]domain.Stop, error) {
	sup, err := d.Directory.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("add supplier %q: %w", supplierID, err)
	}
	return d.edit(ctx, dayKey, func(stops []domain.Stop) ([]domain.Stop, error) {
		out, _, err := InsertSupplier(stops, position, sup)
		return out, err
	})
}

// AddPlace inserts an ad-hoc waypoint into the day's route and saves it.
func (d *DayRoutes) AddPlace(ctx context.Context, dayKey, name, address string, position int) ([]domain.Stop, error) {
	return d.edit(ctx, dayKey, func(stops []domain.Stop) ([]domain.Stop, error) {
		out, _, err := InsertPlace(stops, position, name, address)
		return out, err
	})
}

// RemoveStop removes a stop from the day's route and saves it.
func (d *DayRoutes) RemoveStop(ctx context.Context, dayKey, stopID string) ([]domain.Stop, error) {
	return d.edit(ctx, dayKey, func(stops []domain.Stop) ([]domain.Stop, error) {
		return RemoveStop(stops, stopID)
	})
}

func (d *DayRoutes) edit(
	ctx context.Context,
	dayKey string,
	apply func([]domain.Stop) ([]domain.Stop, error),
) ([]domain.Stop, error) {
	_, stops, err := d.Stops(ctx, dayKey)
	if err != nil {
		return nil, err
	}

	edited, err := apply(stops)
	if err != nil {
		return nil, err
	}

	if err := d.Store.Save(ctx, dayKey, domain.ProjectAll(edited)); err != nil {
		return nil, fmt.Errorf("save edited route %s: %w", dayKey, err)
	}
	return edited, nil
}

func (d *DayRoutes) buildInput(ctx context.Context, day time.Time) (BuildInput, error) {
	jobs, err := d.Directory.ListJobs(ctx)
	if err != nil {
		return BuildInput{}, fmt.Errorf("list jobs: %w", err)
	}
	contacts, err := d.Directory.ListContacts(ctx)
	if err != nil {
		return BuildInput{}, fmt.Errorf("list contacts: %w", err)
	}
	suppliers, err := d.Directory.ListSuppliers(ctx)
	if err != nil {
		return BuildInput{}, fmt.Errorf("list suppliers: %w", err)
	}

	saved, err := d.Store.Load(ctx, domain.DayKey(day))
	if err != nil && !errors.Is(err, ports.ErrRouteNotFound) {
		return BuildInput{}, fmt.Errorf("load saved route: %w", err)
	}

	return BuildInput{
		Day:         day,
		HomeAddress: d.HomeAddress,
		Jobs:        jobs,
		Contacts:    contacts,
		Suppliers:   suppliers,
		Saved:       saved,
	}, nil
}

func (d *DayRoutes) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

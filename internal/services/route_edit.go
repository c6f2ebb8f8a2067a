package services

import (
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNoEndpoints  = errors.New("route has no home endpoints")
	ErrStopNotFound = errors.New("stop not found")
	ErrHomeEndpoint = errors.New("home endpoints cannot be removed")
)

// InsertSupplier inserts a supplier errand at position. Every insertion gets
// a fresh stop id, so the same supplier may be visited more than once a day.
// Position is clamped to stay between the home endpoints.
func InsertSupplier(stops []domain.Stop, position int, sup domain.Supplier) ([]domain.Stop, domain.SupplierStop, error) {
	if strings.TrimSpace(sup.Address) == "" {
		return nil, domain.SupplierStop{}, fmt.Errorf("insert supplier %q: address must be non-empty", sup.ID)
	}
	stop := domain.SupplierStop{
		StopBase:   domain.StopBase{ID: uuid.NewString(), Address: sup.Address},
		SupplierID: sup.ID,
		Name:       sup.Name,
	}
	out, err := insertAt(stops, position, stop)
	if err != nil {
		return nil, domain.SupplierStop{}, fmt.Errorf("insert supplier %q: %w", sup.ID, err)
	}
	return out, stop, nil
}

// InsertPlace inserts an ad-hoc waypoint at position.
func InsertPlace(stops []domain.Stop, position int, name, address string) ([]domain.Stop, domain.PlaceStop, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.PlaceStop{}, errors.New("insert place: address must be non-empty")
	}
	if strings.TrimSpace(name) == "" {
		name = address
	}
	stop := domain.PlaceStop{
		StopBase: domain.StopBase{ID: uuid.NewString(), Address: address},
		Name:     name,
	}
	out, err := insertAt(stops, position, stop)
	if err != nil {
		return nil, domain.PlaceStop{}, fmt.Errorf("insert place: %w", err)
	}
	return out, stop, nil
}

// RemoveStop removes the stop with id. Home endpoints cannot be removed.
func RemoveStop(stops []domain.Stop, id string) ([]domain.Stop, error) {
	for i, s := range stops {
		if s.StopID() != id {
			continue
		}
		if s.Kind() == domain.StopKindHome {
			return nil, fmt.Errorf("remove stop %q: %w", id, ErrHomeEndpoint)
		}
		out := make([]domain.Stop, 0, len(stops)-1)
		out = append(out, stops[:i]...)
		return append(out, stops[i+1:]...), nil
	}
	return nil, fmt.Errorf("remove stop %q: %w", id, ErrStopNotFound)
}

func insertAt(stops []domain.Stop, position int, s domain.Stop) ([]domain.Stop, error) {
	if len(stops) < 2 {
		return nil, ErrNoEndpoints
	}
	position = max(1, min(position, len(stops)-1))

	out := make([]domain.Stop, 0, len(stops)+1)
	out = append(out, stops[:position]...)
	out = append(out, s)
	return append(out, stops[position:]...), nil
}

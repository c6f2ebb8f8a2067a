package ports

import (
	"context"
	"errors"
	"route-timing-service/internal/domain"
)

var ErrRouteNotFound = errors.New("saved route not found")

// Port: persistence of user-edited day routes, keyed by YYYY-MM-DD.
type RouteStore interface {
	// Return the saved route for day, or ErrRouteNotFound.
	Load(ctx context.Context, day string) (domain.SavedRoute, error)
	// Replace the saved route for day.
	Save(ctx context.Context, day string, route domain.SavedRoute) error
	// Remove the saved route for day. Clearing a missing route is not an error.
	Clear(ctx context.Context, day string) error
}

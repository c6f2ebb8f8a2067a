package ports

import (
	"context"
	"route-timing-service/internal/domain"
)

// Persistent address -> coordinate cache used by coordinate-based providers.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

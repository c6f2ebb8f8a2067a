package ports

import (
	"context"
	"fmt"
	"route-timing-service/internal/domain"
	"time"
)

// Ordered driving request over at least two addresses. The first and last
// are origin and destination; anything between is a waypoint.
// DepartAt requests traffic-aware durations and is only set for a departure
// at or after the current time.
type DirectionsRequest struct {
	Addresses []string
	DepartAt  *time.Time
}

// Contract for the external routing provider.
type DirectionsGateway interface {
	// Return one leg per adjacent address pair, in request order.
	Directions(ctx context.Context, req DirectionsRequest) ([]domain.Leg, error)
}

// GatewayError is a non-success status reported by the provider itself
// (as opposed to a transport failure).
type GatewayError struct {
	Provider string
	Status   string
	Message  string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s directions: status %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s directions: status %s: %s", e.Provider, e.Status, e.Message)
}

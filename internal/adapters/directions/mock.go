package directions

import (
	"context"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"sync"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockGateway is an in-memory DirectionsGateway keyed by "from|to" pairs.
// Fail, when set, is consulted before every request.
type MockGateway struct {
	mu       sync.Mutex
	m        map[string]domain.Leg
	requests []ports.DirectionsRequest

	Fail func(req ports.DirectionsRequest) error
}

func NewMockGateway(pairs []MockPair) *MockGateway {
	m := make(map[string]domain.Leg, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = domain.Leg{
			DistanceMeters:  p.Meters,
			DistanceText:    formatDistance(p.Meters),
			DurationSeconds: p.Seconds,
			DurationText:    formatDuration(p.Seconds),
		}
	}
	return &MockGateway{m: m}
}

func (g *MockGateway) Directions(ctx context.Context, req ports.DirectionsRequest) ([]domain.Leg, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Addresses) < 2 {
		return nil, fmt.Errorf("mock directions: need at least 2 addresses, got %d", len(req.Addresses))
	}
	if g.Fail != nil {
		if err := g.Fail(req); err != nil {
			return nil, err
		}
	}

	legs := make([]domain.Leg, 0, len(req.Addresses)-1)
	for i := 0; i < len(req.Addresses)-1; i++ {
		from, to := req.Addresses[i], req.Addresses[i+1]
		l, ok := g.m[from+"|"+to]
		if !ok {
			return nil, &ports.GatewayError{Provider: "mock", Status: "NOT_FOUND", Message: fmt.Sprintf("missing pair %q -> %q", from, to)}
		}
		legs = append(legs, l)
	}
	return legs, nil
}

// Requests returns every request received so far, in order.
func (g *MockGateway) Requests() []ports.DirectionsRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ports.DirectionsRequest(nil), g.requests...)
}

package services

import (
	"context"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"sync"
	"sync/atomic"
	"time"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func clock(h, m int) *domain.ClockTime {
	return &domain.ClockTime{Hour: h, Minute: m}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Home(A) -> Job(09:00, 45 min, B) -> Home(A).
func appointmentRoute() []domain.Stop {
	return []domain.Stop{
		domain.NewHomeStart("A"),
		domain.JobStop{
			StopBase:        domain.StopBase{ID: "job-j1-1", Address: "B"},
			JobID:           "j1",
			ContactID:       "c1",
			AppointmentTime: clock(9, 0),
			ServiceMinutes:  45,
		},
		domain.NewHomeEnd("A"),
	}
}

type memStore struct {
	mu     sync.Mutex
	routes map[string]domain.SavedRoute
}

func newMemStore() *memStore { return &memStore{routes: map[string]domain.SavedRoute{}} }

func (s *memStore) Load(_ context.Context, day string) (domain.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[day]
	if !ok {
		return nil, ports.ErrRouteNotFound
	}
	return r, nil
}

func (s *memStore) Save(_ context.Context, day string, route domain.SavedRoute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[day] = route
	return nil
}

func (s *memStore) Clear(_ context.Context, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.routes, day)
	return nil
}

type memDirectory struct {
	jobs      []domain.Job
	contacts  []domain.Contact
	suppliers []domain.Supplier
}

func (d *memDirectory) ListJobs(context.Context) ([]domain.Job, error)         { return d.jobs, nil }
func (d *memDirectory) ListContacts(context.Context) ([]domain.Contact, error) { return d.contacts, nil }
func (d *memDirectory) ListSuppliers(context.Context) ([]domain.Supplier, error) {
	return d.suppliers, nil
}

func (d *memDirectory) GetSupplier(_ context.Context, id string) (domain.Supplier, error) {
	for _, s := range d.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Supplier{}, ports.ErrEntityNotFound
}

// gatedGateway blocks the first request until release is closed.
type gatedGateway struct {
	inner   ports.DirectionsGateway
	first   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedGateway(inner ports.DirectionsGateway) *gatedGateway {
	return &gatedGateway{inner: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedGateway) Directions(ctx context.Context, req ports.DirectionsRequest) ([]domain.Leg, error) {
	if g.first.CompareAndSwap(false, true) {
		close(g.entered)
		<-g.release
	}
	return g.inner.Directions(ctx, req)
}

func scheduled(at time.Time, recorded time.Time) domain.StatusEvent {
	return domain.StatusEvent{Status: domain.StatusScheduled, At: &at, RecordedAt: recorded}
}

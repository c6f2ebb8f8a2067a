package services

import (
	"context"
	"fmt"
	"maps"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle             State = "idle"
	StateResolving        State = "resolving"
	StateFetching         State = "fetching"
	StateFetchingFallback State = "fetching_fallback"
	StateSuccess          State = "success"
	StateFailed           State = "failed"
)

// Snapshot is one recomputation cycle's view of a day's route. Published
// snapshots are never mutated; callers must treat them as read-only.
type Snapshot struct {
	Generation uint64
	Day        string
	State      State
	Stops      []domain.Stop
	Metrics    map[string]domain.RouteMetrics
	Totals     domain.RouteTotals
	LeaveBy    *time.Time
	// Departure the forward pass started from (leave-by or the default).
	DepartAt time.Time
	Notices  []ports.Notice
}

// Orchestrator computes route metrics for a (day, stops) input.
//
// Each call to Submit or Recompute starts a new cycle with a higher
// generation. A cycle publishes into the shared snapshot only while its
// generation is the latest; older cycles run to completion but their results
// and notifications are discarded. Within a cycle the gateway is called
// sequentially: leave-by first, then one batched request, then (only on
// failure) one request per leg.
type Orchestrator struct {
	gateway   ports.DirectionsGateway
	notifier  ports.Notifier
	durations domain.ServiceDurations
	now       func() time.Time
	logger    *zap.Logger

	gen     atomic.Uint64
	mu      sync.Mutex
	current Snapshot
}

type OrchestratorOption func(*Orchestrator)

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func WithLogger(l *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

func NewOrchestrator(
	gateway ports.DirectionsGateway,
	notifier ports.Notifier,
	durations domain.ServiceDurations,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		gateway:   gateway,
		notifier:  notifier,
		durations: durations,
		now:       time.Now,
		logger:    zap.NewNop(),
		current:   Snapshot{State: StateIdle, Metrics: map[string]domain.RouteMetrics{}},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns the latest published snapshot.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Submit starts a cycle for (day, stops) in the background and returns its
// generation. The exposed snapshot is reset before Submit returns.
func (o *Orchestrator) Submit(ctx context.Context, day time.Time, stops []domain.Stop) uint64 {
	c := o.begin(day, stops)
	go o.run(context.WithoutCancel(ctx), c)
	return c.gen
}

// Recompute runs a cycle synchronously. It returns the cycle's own final
// snapshot, and whether that snapshot was published (false when a newer
// cycle started in the meantime).
func (o *Orchestrator) Recompute(ctx context.Context, day time.Time, stops []domain.Stop) (Snapshot, bool) {
	c := o.begin(day, stops)
	return o.run(ctx, c)
}

// cycle owns the accumulator state of one recomputation.
type cycle struct {
	gen   uint64
	day   time.Time
	stops []domain.Stop
	snap  Snapshot
}

func (o *Orchestrator) begin(day time.Time, stops []domain.Stop) *cycle {
	gen := o.gen.Add(1)
	c := &cycle{
		gen:   gen,
		day:   day,
		stops: append([]domain.Stop(nil), stops...),
	}
	c.snap = Snapshot{
		Generation: gen,
		Day:        domain.DayKey(day),
		State:      StateResolving,
		Stops:      c.stops,
		Metrics:    map[string]domain.RouteMetrics{},
	}
	o.publish(c)
	return c
}

func (o *Orchestrator) run(ctx context.Context, c *cycle) (Snapshot, bool) {
	if !domain.Routable(c.stops) {
		c.snap.State = StateIdle
		c.snap.Totals.Complete = true
		return c.snap, o.publish(c)
	}

	now := o.now()

	// Resolving: the forward pass depends on the leave-by outcome.
	leaveBy, err := ComputeLeaveBy(ctx, o.gateway, c.stops, c.day, now, o.durations)
	if err != nil {
		o.notify(ctx, c, ports.Notice{
			Level:   ports.NoticeWarning,
			Kind:    ports.NoticeLeaveByUnavailable,
			Message: fmt.Sprintf("Could not calculate leave-by time; assuming departure at %s.", o.durations.DefaultDeparture),
		})
		o.logger.Warn("leave-by calculation failed", zap.Uint64("gen", c.gen), zap.Error(err))
	}
	start := o.durations.DefaultDeparture.On(c.day)
	if leaveBy != nil {
		start = *leaveBy
	}
	c.snap.LeaveBy = leaveBy
	c.snap.DepartAt = start

	o.transition(c, StateFetching)
	legs, err := o.gateway.Directions(ctx, ports.DirectionsRequest{
		Addresses: addressesOf(c.stops),
		DepartAt:  departHint(start, o.now()),
	})
	if err == nil {
		prop, perr := Propagate(c.stops, c.day, start, legs, o.durations)
		if perr == nil {
			o.finish(c, prop, StateSuccess)
			return c.snap, o.publish(c)
		}
		err = perr
	}

	o.logger.Info("batched directions failed, falling back to per-leg requests",
		zap.Uint64("gen", c.gen), zap.Error(err))
	o.notify(ctx, c, ports.Notice{
		Level:   ports.NoticeInfo,
		Kind:    ports.NoticeBatchedFetchFailed,
		Message: "Full-route traffic data was unavailable; timing legs individually.",
	})
	o.transition(c, StateFetchingFallback)

	return o.fallback(ctx, c, start)
}

func (o *Orchestrator) fallback(ctx context.Context, c *cycle, start time.Time) (Snapshot, bool) {
	p := newPropagator(c.day, start, o.durations)

	for i := 0; i < len(c.stops)-1; i++ {
		from, to := c.stops[i], c.stops[i+1]

		legs, err := o.gateway.Directions(ctx, ports.DirectionsRequest{
			Addresses: []string{from.StopAddress(), to.StopAddress()},
			DepartAt:  departHint(p.current, o.now()),
		})
		if err == nil && len(legs) != 1 {
			err = fmt.Errorf("got %d legs for a single pair", len(legs))
		}
		if err != nil {
			o.logger.Warn("leg directions failed",
				zap.Uint64("gen", c.gen),
				zap.String("origin", from.StopAddress()),
				zap.String("destination", to.StopAddress()),
				zap.Error(err))
			o.notify(ctx, c, ports.Notice{
				Level: ports.NoticeError,
				Kind:  ports.NoticeLegFailed,
				Message: fmt.Sprintf("Could not get directions from %q to %q; later stops have no timing.",
					from.StopAddress(), to.StopAddress()),
				Origin:      from.StopAddress(),
				Destination: to.StopAddress(),
			})
			o.finish(c, p.result(false), StateFailed)
			return c.snap, o.publish(c)
		}

		p.step(to, legs[0])
	}

	o.finish(c, p.result(true), StateSuccess)
	return c.snap, o.publish(c)
}

func (o *Orchestrator) finish(c *cycle, prop Propagation, state State) {
	c.snap.State = state
	c.snap.Metrics = prop.Metrics
	c.snap.Totals = prop.Totals
}

func (o *Orchestrator) transition(c *cycle, state State) {
	c.snap.State = state
	o.logger.Debug("route metrics state", zap.Uint64("gen", c.gen), zap.String("state", string(state)))
	o.publish(c)
}

// publish replaces the shared snapshot with a copy of the cycle's snapshot
// if the cycle is still the latest one.
func (o *Orchestrator) publish(c *cycle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if c.gen != o.gen.Load() {
		return false
	}

	snap := c.snap
	snap.Stops = append([]domain.Stop(nil), c.snap.Stops...)
	snap.Metrics = maps.Clone(c.snap.Metrics)
	snap.Notices = append([]ports.Notice(nil), c.snap.Notices...)
	if c.snap.LeaveBy != nil {
		lb := *c.snap.LeaveBy
		snap.LeaveBy = &lb
	}
	o.current = snap
	return true
}

// notify records n on the cycle and forwards it unless the cycle is stale.
func (o *Orchestrator) notify(ctx context.Context, c *cycle, n ports.Notice) {
	c.snap.Notices = append(c.snap.Notices, n)
	if o.notifier == nil || c.gen != o.gen.Load() {
		return
	}
	o.notifier.Notify(ctx, n)
}

// departHint requests traffic-aware durations only for departures that are
// not in the past; providers reject past departure times.
func departHint(start, now time.Time) *time.Time {
	if start.Before(now) {
		return nil
	}
	t := start
	return &t
}

func addressesOf(stops []domain.Stop) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.StopAddress())
	}
	return out
}

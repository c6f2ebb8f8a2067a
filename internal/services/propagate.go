package services

import (
	"fmt"
	"math"
	"route-timing-service/internal/domain"
	"time"
)

// Result of a forward timing pass. Metrics is keyed by stop id and holds an
// entry for every stop reached; the first stop never has one.
type Propagation struct {
	Metrics map[string]domain.RouteMetrics
	Totals  domain.RouteTotals
	// Time the technician leaves the last reached stop.
	End time.Time
}

// propagator is the incremental fold behind Propagate. The per-leg fallback
// feeds it one leg at a time, so both fetch tiers reconcile appointments the
// same way.
type propagator struct {
	day       time.Time
	durations domain.ServiceDurations
	current   time.Time
	metrics   map[string]domain.RouteMetrics
	totals    domain.RouteTotals
}

func newPropagator(day, start time.Time, durations domain.ServiceDurations) *propagator {
	return &propagator{
		day:       day,
		durations: durations,
		current:   start,
		metrics:   make(map[string]domain.RouteMetrics),
	}
}

// step applies the leg arriving at dest and advances the running time past
// dest's service duration.
func (p *propagator) step(dest domain.Stop, leg domain.Leg) domain.RouteMetrics {
	arrival := p.current.Add(time.Duration(leg.DurationSeconds) * time.Second)
	eta := arrival
	idle := 0

	if appt, ok := domain.FixedAppointment(dest); ok {
		scheduled := appt.On(p.day)
		if arrival.Before(scheduled) {
			idle = int(math.Ceil(scheduled.Sub(arrival).Minutes()))
			eta = scheduled
		}
	}

	m := domain.RouteMetrics{
		TravelDistanceValue: leg.DistanceMeters,
		TravelDistanceText:  leg.DistanceText,
		TravelTimeValue:     leg.DurationSeconds,
		TravelTimeText:      leg.DurationText,
		ETA:                 eta,
		IdleTimeMinutes:     idle,
	}
	p.metrics[dest.StopID()] = m
	p.totals.Add(leg)
	p.current = eta.Add(p.durations.ServiceDuration(dest))
	return m
}

func (p *propagator) result(complete bool) Propagation {
	totals := p.totals
	totals.Complete = complete
	return Propagation{Metrics: p.metrics, Totals: totals, End: p.current}
}

// Propagate walks stops from start, applying legs[i] between stops[i] and
// stops[i+1]. It performs no I/O.
func Propagate(
	stops []domain.Stop,
	day time.Time,
	start time.Time,
	legs []domain.Leg,
	durations domain.ServiceDurations,
) (Propagation, error) {
	if len(stops) < 2 {
		return Propagation{Metrics: map[string]domain.RouteMetrics{}, End: start, Totals: domain.RouteTotals{Complete: true}}, nil
	}
	if len(legs) != len(stops)-1 {
		return Propagation{}, fmt.Errorf("propagate: got %d legs for %d stops", len(legs), len(stops))
	}

	p := newPropagator(day, start, durations)
	for i, leg := range legs {
		p.step(stops[i+1], leg)
	}
	return p.result(true), nil
}

package services

import (
	"context"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"time"
)

// ComputeLeaveBy returns the latest departure from the first stop that still
// reaches the first time-constrained job on time.
//
// It returns nil with no error when there is nothing to calculate: no job has
// a fixed appointment, or that job is the very first stop. Travel time is
// queried as if leaving at now; only the durations are used. Every stop
// strictly between the start and the target job adds its service duration,
// including jobs without an appointment, so departing at the result reaches
// the target with no idle time.
func ComputeLeaveBy(
	ctx context.Context,
	gateway ports.DirectionsGateway,
	stops []domain.Stop,
	day time.Time,
	now time.Time,
	durations domain.ServiceDurations,
) (*time.Time, error) {
	target := -1
	var appt domain.ClockTime
	for i, s := range stops {
		if a, ok := domain.FixedAppointment(s); ok {
			target = i
			appt = a
			break
		}
	}
	if target <= 0 {
		return nil, nil
	}

	segment := stops[:target+1]
	if !domain.Routable(segment) {
		return nil, nil
	}

	addresses := make([]string, 0, len(segment))
	for _, s := range segment {
		addresses = append(addresses, s.StopAddress())
	}

	departAt := now
	legs, err := gateway.Directions(ctx, ports.DirectionsRequest{Addresses: addresses, DepartAt: &departAt})
	if err != nil {
		return nil, fmt.Errorf("compute leave-by: directions to %q: %w", segment[target].StopAddress(), err)
	}
	if len(legs) != len(segment)-1 {
		return nil, fmt.Errorf("compute leave-by: got %d legs, want %d", len(legs), len(segment)-1)
	}

	var total time.Duration
	for _, l := range legs {
		total += time.Duration(l.DurationSeconds) * time.Second
	}
	for _, s := range segment[1:target] {
		total += durations.ServiceDuration(s)
	}

	leaveBy := appt.On(day).Add(-total)
	return &leaveBy, nil
}

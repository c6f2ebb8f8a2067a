package domain

import "time"

// Travel distance and duration of one leg as returned by a routing provider.
// DurationSeconds is traffic-aware when the provider had a future departure.
type Leg struct {
	DistanceMeters  int
	DistanceText    string
	DurationSeconds int
	DurationText    string
}

// Timing result for one stop, describing the leg that arrives at it.
// ETA is reconciled against any fixed appointment at the stop.
type RouteMetrics struct {
	TravelDistanceValue int
	TravelDistanceText  string
	TravelTimeValue     int
	TravelTimeText      string
	ETA                 time.Time
	IdleTimeMinutes     int
}

// Sum of every leg that was actually computed. Complete is false when at
// least one leg could not be computed.
type RouteTotals struct {
	DistanceMeters int
	TimeSeconds    int
	Complete       bool
}

func (t *RouteTotals) Add(l Leg) {
	t.DistanceMeters += l.DistanceMeters
	t.TimeSeconds += l.DurationSeconds
}

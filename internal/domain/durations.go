package domain

import "time"

// ServiceDurations holds the time spent on site at each kind of stop, and the
// departure assumed when no leave-by time can be calculated.
type ServiceDurations struct {
	JobDefault       time.Duration
	Supplier         time.Duration
	Place            time.Duration
	DefaultDeparture ClockTime
}

func DefaultServiceDurations() ServiceDurations {
	return ServiceDurations{
		JobDefault:       60 * time.Minute,
		Supplier:         30 * time.Minute,
		Place:            30 * time.Minute,
		DefaultDeparture: ClockTime{Hour: 8, Minute: 0},
	}
}

// ServiceDuration returns how long the technician stays at s before leaving
// for the next stop. Home stops have no service time.
func (d ServiceDurations) ServiceDuration(s Stop) time.Duration {
	return MatchStop(s,
		func(HomeStop) time.Duration { return 0 },
		func(j JobStop) time.Duration {
			if j.ServiceMinutes > 0 {
				return time.Duration(j.ServiceMinutes) * time.Minute
			}
			return d.JobDefault
		},
		func(SupplierStop) time.Duration { return d.Supplier },
		func(PlaceStop) time.Duration { return d.Place },
	)
}

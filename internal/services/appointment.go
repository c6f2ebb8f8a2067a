package services

import (
	"route-timing-service/internal/domain"
	"time"
)

// AppointmentOn returns the fixed appointment of job on day: the clock time
// of the most recently recorded scheduling event dated on that day. A job
// with no such event is unconstrained that day.
func AppointmentOn(job domain.Job, day time.Time) *domain.ClockTime {
	loc := day.Location()

	var (
		found   bool
		latest  domain.StatusEvent
		appoint domain.ClockTime
	)
	for _, ev := range job.History {
		if !ev.Status.Scheduling() || ev.At == nil {
			continue
		}
		if !domain.SameDay(*ev.At, day, loc) {
			continue
		}
		if found && ev.RecordedAt.Before(latest.RecordedAt) {
			continue
		}
		found = true
		latest = ev
		appoint = domain.ClockOf(ev.At.In(loc))
	}

	if !found {
		return nil
	}
	return &appoint
}

// RoutableOn reports whether job had a routable, dated status event landing
// on day. The job's current status does not matter, so historical days
// keep the jobs that were visited on them.
func RoutableOn(job domain.Job, day time.Time) bool {
	for _, ev := range job.History {
		if ev.Status.Routable() && ev.At != nil && domain.SameDay(*ev.At, day, day.Location()) {
			return true
		}
	}
	return false
}

// ServiceMinutesOf returns the explicit duration on the job's current status
// event, or zero when none was recorded.
func ServiceMinutesOf(job domain.Job) int {
	ev, ok := job.CurrentEvent()
	if !ok || ev.DurationMinutes == nil || *ev.DurationMinutes <= 0 {
		return 0
	}
	return *ev.DurationMinutes
}

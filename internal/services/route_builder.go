package services

import (
	"fmt"
	"route-timing-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// Inputs to BuildStops. Saved is nil when no route was saved for Day.
type BuildInput struct {
	Day         time.Time
	HomeAddress string
	Jobs        []domain.Job
	Contacts    []domain.Contact
	Suppliers   []domain.Supplier
	Saved       domain.SavedRoute
}

// BuildStops produces the ordered stop sequence for a day.
//
// A saved route is trusted for order and selection only: every stop is
// re-resolved against the current job, contact and supplier records, and
// entries whose entity no longer exists are dropped. Without a saved route
// the default sequence is home, every job routable on the day ordered by
// appointment time (unscheduled last), then home.
func BuildStops(in BuildInput) []domain.Stop {
	home := strings.TrimSpace(in.HomeAddress)
	if home == "" {
		return []domain.Stop{}
	}

	idx := newLookup(in)
	if in.Saved != nil {
		return reconstruct(in, idx, home)
	}
	return synthesize(in, idx, home)
}

type lookup struct {
	jobs      map[string]domain.Job
	contacts  map[string]domain.Contact
	suppliers map[string]domain.Supplier
}

func newLookup(in BuildInput) lookup {
	l := lookup{
		jobs:      make(map[string]domain.Job, len(in.Jobs)),
		contacts:  make(map[string]domain.Contact, len(in.Contacts)),
		suppliers: make(map[string]domain.Supplier, len(in.Suppliers)),
	}
	for _, j := range in.Jobs {
		l.jobs[j.ID] = j
	}
	for _, c := range in.Contacts {
		l.contacts[c.ID] = c
	}
	for _, s := range in.Suppliers {
		l.suppliers[s.ID] = s
	}
	return l
}

// reconstruct resolves the saved entries between the home endpoints. Home
// entries only mark the ends of the route, so misplaced ones are ignored and
// both endpoints are always put back. Colliding stop ids are renumbered.
func reconstruct(in BuildInput, idx lookup, home string) []domain.Stop {
	middle := make([]domain.Stop, 0, len(in.Saved))
	occurrences := make(map[string]int)
	ids := newIDClaims()
	kept := false

	for _, saved := range in.Saved {
		switch saved.Type {
		case domain.StopKindHome:
			kept = true

		case domain.StopKindJob:
			job, ok := idx.jobs[saved.JobID]
			if !ok {
				continue
			}
			contact, ok := idx.contacts[saved.ContactID]
			if !ok || strings.TrimSpace(contact.Address) == "" {
				continue
			}
			occurrences[job.ID]++
			stop := jobStop(job, contact, in.Day, occurrences[job.ID])
			stop.ID = ids.claim(stop.ID)
			middle = append(middle, stop)

		case domain.StopKindSupplier:
			sup, ok := idx.suppliers[saved.SupplierID]
			if !ok || strings.TrimSpace(sup.Address) == "" {
				continue
			}
			middle = append(middle, domain.SupplierStop{
				StopBase:   domain.StopBase{ID: ids.claim(saved.ID), Address: sup.Address},
				SupplierID: sup.ID,
				Name:       sup.Name,
			})

		case domain.StopKindPlace:
			if strings.TrimSpace(saved.Address) == "" {
				continue
			}
			middle = append(middle, domain.PlaceStop{
				StopBase: domain.StopBase{ID: ids.claim(saved.ID), Address: saved.Address},
				Name:     saved.Name,
			})
		}
	}

	if !kept && len(middle) == 0 {
		return []domain.Stop{}
	}

	stops := make([]domain.Stop, 0, len(middle)+2)
	stops = append(stops, domain.NewHomeStart(home))
	stops = append(stops, middle...)
	return append(stops, domain.NewHomeEnd(home))
}

// idClaims hands out ids unique within one day's sequence. The home ids are
// reserved up front.
type idClaims map[string]int

func newIDClaims() idClaims {
	return idClaims{domain.HomeStartID: 1, domain.HomeEndID: 1}
}

// claim returns id if it is free, otherwise id with the next free "-n" suffix.
func (s idClaims) claim(id string) string {
	if _, taken := s[id]; !taken {
		s[id] = 1
		return id
	}
	for n := s[id] + 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := s[candidate]; !taken {
			s[id] = n
			s[candidate] = 1
			return candidate
		}
	}
}

func synthesize(in BuildInput, idx lookup, home string) []domain.Stop {
	jobs := make([]domain.JobStop, 0)
	for _, job := range in.Jobs {
		if !RoutableOn(job, in.Day) {
			continue
		}
		contact, ok := idx.contacts[job.ContactID]
		if !ok || strings.TrimSpace(contact.Address) == "" {
			continue
		}
		jobs = append(jobs, jobStop(job, contact, in.Day, 1))
	}

	slices.SortStableFunc(jobs, func(a, b domain.JobStop) int {
		return compareAppointments(a.AppointmentTime, b.AppointmentTime)
	})

	stops := make([]domain.Stop, 0, len(jobs)+2)
	stops = append(stops, domain.NewHomeStart(home))
	for _, j := range jobs {
		stops = append(stops, j)
	}
	stops = append(stops, domain.NewHomeEnd(home))
	return stops
}

// Ascending by clock time; jobs without an appointment sort last.
func compareAppointments(a, b *domain.ClockTime) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	am := a.Hour*60 + a.Minute
	bm := b.Hour*60 + b.Minute
	return am - bm
}

func jobStop(job domain.Job, contact domain.Contact, day time.Time, occurrence int) domain.JobStop {
	return domain.JobStop{
		StopBase:        domain.StopBase{ID: domain.JobStopID(job.ID, occurrence), Address: contact.Address},
		JobID:           job.ID,
		ContactID:       contact.ID,
		ContactName:     contact.Name,
		AppointmentTime: AppointmentOn(job, day),
		ServiceMinutes:  ServiceMinutesOf(job),
	}
}

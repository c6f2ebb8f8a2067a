package domain

import (
	"fmt"
)

type StopKind string

const (
	StopKindHome     StopKind = "home"
	StopKindJob      StopKind = "job"
	StopKindSupplier StopKind = "supplier"
	StopKindPlace    StopKind = "place"
)

type HomeLabel string

const (
	HomeStart HomeLabel = "Start"
	HomeEnd   HomeLabel = "End"
)

// Fixed ids of the home endpoints of a day's route.
const (
	HomeStartID = "home-start"
	HomeEndID   = "home-end"
)

// Stop is one physical location on a day's route.
//
// The set of implementations is closed (HomeStop, JobStop, SupplierStop,
// PlaceStop). Consumers branch on kind with MatchStop so that adding a kind
// breaks every call site at compile time.
type Stop interface {
	StopID() string
	StopAddress() string
	Kind() StopKind
	sealed()
}

// Fields shared by every stop kind.
type StopBase struct {
	ID      string
	Address string
}

func (b StopBase) StopID() string      { return b.ID }
func (b StopBase) StopAddress() string { return b.Address }

type HomeStop struct {
	StopBase
	Label HomeLabel
}

// A visit to a customer job. AppointmentTime is set only when the job has a
// timed scheduling event on the route's day. ServiceMinutes is zero when the
// job's current status event carries no explicit duration.
type JobStop struct {
	StopBase
	JobID           string
	ContactID       string
	ContactName     string
	AppointmentTime *ClockTime
	ServiceMinutes  int
}

type SupplierStop struct {
	StopBase
	SupplierID string
	Name       string
}

// An ad-hoc waypoint with no backing entity and no time semantics.
type PlaceStop struct {
	StopBase
	Name string
}

func (HomeStop) Kind() StopKind     { return StopKindHome }
func (JobStop) Kind() StopKind      { return StopKindJob }
func (SupplierStop) Kind() StopKind { return StopKindSupplier }
func (PlaceStop) Kind() StopKind    { return StopKindPlace }

func (HomeStop) sealed()     {}
func (JobStop) sealed()      {}
func (SupplierStop) sealed() {}
func (PlaceStop) sealed()    {}

// MatchStop dispatches on the concrete kind of s.
func MatchStop[T any](
	s Stop,
	home func(HomeStop) T,
	job func(JobStop) T,
	supplier func(SupplierStop) T,
	place func(PlaceStop) T,
) T {
	switch v := s.(type) {
	case HomeStop:
		return home(v)
	case JobStop:
		return job(v)
	case SupplierStop:
		return supplier(v)
	case PlaceStop:
		return place(v)
	default:
		panic(fmt.Sprintf("domain: unknown stop type %T", s))
	}
}

// FixedAppointment returns the appointment of s when s is a time-constrained job.
func FixedAppointment(s Stop) (ClockTime, bool) {
	j, ok := s.(JobStop)
	if !ok || j.AppointmentTime == nil {
		return ClockTime{}, false
	}
	return *j.AppointmentTime, true
}

// Routable reports whether a route can be computed over stops: at least one
// leg, and every stop has an address.
func Routable(stops []Stop) bool {
	if len(stops) < 2 {
		return false
	}
	for _, s := range stops {
		if s.StopAddress() == "" {
			return false
		}
	}
	return true
}

func NewHomeStart(address string) HomeStop {
	return HomeStop{StopBase: StopBase{ID: HomeStartID, Address: address}, Label: HomeStart}
}

func NewHomeEnd(address string) HomeStop {
	return HomeStop{StopBase: StopBase{ID: HomeEndID, Address: address}, Label: HomeEnd}
}

// JobStopID derives the stop id of the n-th (1-based) occurrence of a job in
// one day's sequence.
func JobStopID(jobID string, occurrence int) string {
	return fmt.Sprintf("job-%s-%d", jobID, occurrence)
}

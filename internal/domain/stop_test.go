package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchStopDispatchesOnKind(t *testing.T) {
	kinds := func(s Stop) string {
		return MatchStop(s,
			func(h HomeStop) string { return "home:" + string(h.Label) },
			func(j JobStop) string { return "job:" + j.JobID },
			func(s SupplierStop) string { return "supplier:" + s.SupplierID },
			func(p PlaceStop) string { return "place:" + p.Name },
		)
	}

	assert.Equal(t, "home:Start", kinds(NewHomeStart("1 Main St")))
	assert.Equal(t, "home:End", kinds(NewHomeEnd("1 Main St")))
	assert.Equal(t, "job:j1", kinds(JobStop{JobID: "j1"}))
	assert.Equal(t, "supplier:s1", kinds(SupplierStop{SupplierID: "s1"}))
	assert.Equal(t, "place:Bank", kinds(PlaceStop{Name: "Bank"}))
}

func TestFixedAppointment(t *testing.T) {
	appt := ClockTime{Hour: 9}

	got, ok := FixedAppointment(JobStop{AppointmentTime: &appt})
	assert.True(t, ok)
	assert.Equal(t, appt, got)

	_, ok = FixedAppointment(JobStop{})
	assert.False(t, ok)
	_, ok = FixedAppointment(PlaceStop{})
	assert.False(t, ok)
}

func TestRoutable(t *testing.T) {
	home := NewHomeStart("1 Main St")
	job := JobStop{StopBase: StopBase{ID: "job-j1-1", Address: "2 Oak Ave"}}

	assert.False(t, Routable(nil))
	assert.False(t, Routable([]Stop{home}))
	assert.True(t, Routable([]Stop{home, job}))
	assert.False(t, Routable([]Stop{home, JobStop{StopBase: StopBase{ID: "job-j2-1"}}}))
}

func TestServiceDuration(t *testing.T) {
	d := DefaultServiceDurations()

	assert.Zero(t, d.ServiceDuration(NewHomeEnd("x")))
	assert.Equal(t, 60*time.Minute, d.ServiceDuration(JobStop{}))
	assert.Equal(t, 45*time.Minute, d.ServiceDuration(JobStop{ServiceMinutes: 45}))
	assert.Equal(t, 30*time.Minute, d.ServiceDuration(SupplierStop{}))
	assert.Equal(t, 30*time.Minute, d.ServiceDuration(PlaceStop{}))
}

func TestJobStopID(t *testing.T) {
	assert.Equal(t, "job-j1-2", JobStopID("j1", 2))
}

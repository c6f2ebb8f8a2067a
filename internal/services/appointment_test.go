package services

import (
	"route-timing-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentOnLatestRecordedWins(t *testing.T) {
	rescheduled := domain.Job{ID: "j", History: []domain.StatusEvent{
		scheduled(at(9, 0), at(0, 0).AddDate(0, 0, -3)),
		scheduled(at(13, 30), at(0, 0).AddDate(0, 0, -1)),
	}}

	got := AppointmentOn(rescheduled, testDay)
	require.NotNil(t, got)
	assert.Equal(t, domain.ClockTime{Hour: 13, Minute: 30}, *got)

	assert.Nil(t, AppointmentOn(rescheduled, testDay.AddDate(0, 0, 1)))
}

func TestAppointmentOnIgnoresNonSchedulingStatuses(t *testing.T) {
	start := at(8, 15)
	job := domain.Job{History: []domain.StatusEvent{
		{Status: domain.StatusInProgress, At: &start, RecordedAt: start},
	}}

	assert.Nil(t, AppointmentOn(job, testDay))
	assert.True(t, RoutableOn(job, testDay))
}

func TestRoutableOnHistoricalDay(t *testing.T) {
	job := domain.Job{History: []domain.StatusEvent{
		scheduled(at(9, 0), at(0, 0).AddDate(0, 0, -2)),
		{Status: domain.StatusPaid, RecordedAt: at(18, 0).AddDate(0, 0, 2)},
	}}

	assert.True(t, RoutableOn(job, testDay), "current status no longer matters")
	assert.False(t, RoutableOn(job, testDay.AddDate(0, 0, 2)))
}

func TestServiceMinutesOf(t *testing.T) {
	ninety := 90
	job := domain.Job{History: []domain.StatusEvent{
		{Status: domain.StatusScheduled, DurationMinutes: &ninety, RecordedAt: at(1, 0)},
	}}
	assert.Equal(t, 90, ServiceMinutesOf(job))

	job.History = append(job.History, domain.StatusEvent{Status: domain.StatusInProgress, RecordedAt: at(2, 0)})
	assert.Equal(t, 0, ServiceMinutesOf(job), "only the current event's duration counts")

	assert.Equal(t, 0, ServiceMinutesOf(domain.Job{}))
}

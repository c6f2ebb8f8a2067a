package domain

import "time"

type JobStatus string

const (
	StatusLead              JobStatus = "Lead"
	StatusEstimateScheduled JobStatus = "Estimate Scheduled"
	StatusQuoteSent         JobStatus = "Quote Sent"
	StatusScheduled         JobStatus = "Scheduled"
	StatusInProgress        JobStatus = "In Progress"
	StatusCompleted         JobStatus = "Completed"
	StatusInvoiced          JobStatus = "Invoiced"
	StatusPaid              JobStatus = "Paid"
)

// Routable statuses warrant a physical visit on the event's date.
func (s JobStatus) Routable() bool {
	switch s {
	case StatusEstimateScheduled, StatusScheduled, StatusInProgress:
		return true
	}
	return false
}

// Scheduling statuses fix an appointment time on the event's date.
func (s JobStatus) Scheduling() bool {
	return s == StatusEstimateScheduled || s == StatusScheduled
}

// A single entry in a job's status history. At is the dated/timed moment the
// status applies to (appointment or start time); RecordedAt is when the
// entry was made. DurationMinutes is the explicit on-site duration, if any.
type StatusEvent struct {
	Status          JobStatus
	At              *time.Time
	DurationMinutes *int
	RecordedAt      time.Time
}

// Job record as owned by the job-tracking collaborator. History is kept in
// the order entries were recorded; the last entry is the current status.
type Job struct {
	ID        string
	ContactID string
	Title     string
	History   []StatusEvent
}

// CurrentEvent returns the most recently recorded status event.
func (j Job) CurrentEvent() (StatusEvent, bool) {
	if len(j.History) == 0 {
		return StatusEvent{}, false
	}
	cur := j.History[0]
	for _, ev := range j.History[1:] {
		if !ev.RecordedAt.Before(cur.RecordedAt) {
			cur = ev
		}
	}
	return cur, true
}

type Contact struct {
	ID      string
	Name    string
	Address string
}

type Supplier struct {
	ID      string
	Name    string
	Address string
}

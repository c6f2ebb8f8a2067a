package ports

import "context"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

type NoticeKind string

const (
	NoticeLeaveByUnavailable NoticeKind = "leave_by_unavailable"
	NoticeBatchedFetchFailed NoticeKind = "batched_fetch_failed"
	NoticeLegFailed          NoticeKind = "leg_failed"
)

// User-facing notification raised while computing route metrics.
// Origin and Destination identify the failing address pair for leg failures.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Kind        NoticeKind  `json:"kind"`
	Message     string      `json:"message"`
	Origin      string      `json:"origin,omitempty"`
	Destination string      `json:"destination,omitempty"`
}

// Side channel for failures absorbed by the metrics orchestrator.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

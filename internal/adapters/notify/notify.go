package notify

import (
	"context"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogNotifier writes notices to a zap logger at the notice's level.
type LogNotifier struct {
	Logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice ports.Notice) {
	fields := []zap.Field{zap.String("kind", string(notice.Kind))}
	if notice.Origin != "" {
		fields = append(fields, zap.String("origin", notice.Origin), zap.String("destination", notice.Destination))
	}
	if id := obs.RequestID(ctx); id != "" {
		fields = append(fields, zap.String("req_id", id))
	}

	if ce := n.Logger.Check(levelOf(notice.Level), notice.Message); ce != nil {
		ce.Write(fields...)
	}
}

func levelOf(l ports.NoticeLevel) zapcore.Level {
	switch l {
	case ports.NoticeError:
		return zapcore.ErrorLevel
	case ports.NoticeWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (r *Recorder) Notify(_ context.Context, n ports.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []ports.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Notice(nil), r.notices...)
}

// Multi fans a notice out to several notifiers.
type Multi []ports.Notifier

func (m Multi) Notify(ctx context.Context, n ports.Notice) {
	for _, nt := range m {
		nt.Notify(ctx, n)
	}
}

package obs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores a request id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func is deferred, along
// with the error the named return points at. Errors matching one of
// expected are normal outcomes for op and are logged at debug level.
//
//	defer obs.Time(ctx, logger, "store.Load", ports.ErrRouteNotFound)(&err)
func Time(ctx context.Context, logger *zap.Logger, op string, expected ...error) func(errp *error) {
	start := time.Now()
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("op", op),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}
		if id := RequestID(ctx); id != "" {
			fields = append(fields, zap.String("req_id", id))
		}

		if errp == nil || *errp == nil {
			logger.Debug("operation", fields...)
			return
		}
		for _, e := range expected {
			if errors.Is(*errp, e) {
				logger.Debug("operation", append(fields, zap.String("result", (*errp).Error()))...)
				return
			}
		}
		logger.Warn("operation failed", append(fields, zap.Error(*errp))...)
	}
}

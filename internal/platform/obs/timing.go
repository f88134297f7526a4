package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts a timer for op and returns a func that logs its duration.
// Pass a pointer to the named error result to log failures at error level:
//
//	defer obs.Time(ctx, "inventory.load")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Error().
				Str("req_id", reqID).
				Str("op", name).
				Dur("dur", dur).
				Err(*errp).
				Msg("op failed")
			return
		}
		log.Debug().
			Str("req_id", reqID).
			Str("op", name).
			Dur("dur", dur).
			Msg("op done")
	}
}

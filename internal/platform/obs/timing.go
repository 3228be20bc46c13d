package obs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Time starts a timer for op and returns a func that logs its duration and,
// when errp points at a non-nil error, the error. Use with defer:
//
//	defer obs.Time(ctx, "trips.PlanTrip")(&err)
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	reqID := middleware.GetReqID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			slog.WarnContext(ctx, "operation failed",
				"req_id", reqID,
				"op", op,
				"dur_ms", dur.Milliseconds(),
				"error", *errp,
			)
			return
		}
		slog.DebugContext(ctx, "operation done",
			"req_id", reqID,
			"op", op,
			"dur_ms", dur.Milliseconds(),
		)
	}
}

package obs

import (
	"context"
	"log/slog"
	"time"

	"route-planner/internal/platform/logger"
)

// Time starts a timer for op and returns a function to be deferred with the
// named error result. It logs the duration and observes the op histogram.
func Time(ctx context.Context, log *logger.Logger, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		OperationDuration.WithLabelValues(op).Observe(dur.Seconds())

		l := log.WithContext(ctx)
		if errp != nil && *errp != nil {
			l.Debug("op", slog.String("op", op), slog.Int64("dur_ms", dur.Milliseconds()), slog.String("err", (*errp).Error()))
			return
		}
		l.Debug("op", slog.String("op", op), slog.Int64("dur_ms", dur.Milliseconds()))
	}
}

package notify

import (
	"context"
	"log/slog"

	"route-planner/internal/platform/logger"
	"route-planner/internal/ports"
)

// LogNotifier writes notifications to the structured log. Failures go out at
// warn level so they stand out from acknowledgments.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, note ports.Notification) {
	attrs := []any{
		slog.String("kind", string(note.Kind)),
		slog.String("op", note.Op),
	}
	if note.RouteID != "" {
		attrs = append(attrs, slog.String("route_id", note.RouteID))
	}
	if note.Status != "" {
		attrs = append(attrs, slog.String("status", note.Status))
	}

	switch note.Kind {
	case ports.NotifyFailure, ports.NotifyValidation, ports.NotifyNotFound:
		n.log.WithContext(ctx).Warn(note.Message, attrs...)
	default:
		n.log.WithContext(ctx).Info(note.Message, attrs...)
	}
}

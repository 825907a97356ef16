package notify

import (
	"context"
	"log/slog"
)

// LogSink delivers notifications to the structured log. It stands in for a
// real push channel in development and in the daemon's default wiring.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Deliver logs the notification at info level.
func (s *LogSink) Deliver(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"title", n.Title,
		"body", n.Body,
	)
	return nil
}

// StaticGate is a PermissionGate with a fixed answer, used where no
// interactive prompt exists.
type StaticGate struct {
	Granted bool
}

// RequestPermission returns the configured answer.
func (g StaticGate) RequestPermission(ctx context.Context) (bool, error) {
	return g.Granted, nil
}

package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded messages. It backs
// dry runs and deployments without a message endpoint.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards messages with a log line.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards text.
func (n *NoOpNotifier) Notify(_ context.Context, text string) error {
	n.log.Debug("notification discarded (no backend configured)", "text", text)
	return nil
}

var _ Notifier = (*NoOpNotifier)(nil)

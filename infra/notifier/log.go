// Package notifier provides outbound notification implementations. Delivery
// happens outside every financial transaction boundary; failures are logged
// and never surfaced to accounting operations.
package notifier

import (
	"context"
	"log/slog"
)

// Log writes notifications to the structured log instead of an outbound
// channel. It stands in for a mail or push provider in development and test
// environments.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log-backed notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Notify records the message. It never fails.
func (n *Log) Notify(_ context.Context, userID, subject, body string) {
	n.logger.Info("notification", "userID", userID, "subject", subject, "body", body)
}

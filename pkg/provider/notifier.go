package provider

import "context"

// Notifier delivers user-facing messages outside the financial transaction
// boundary. Implementations are fire-and-forget: a delivery failure must
// never roll back or block an accounting operation.
type Notifier interface {
	Notify(ctx context.Context, userID string, subject, body string)
}

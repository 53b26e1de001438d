package providers

import "context"

// EmailSender delivers a notification through an external email channel.
// Delivery is best-effort: callers persist the in-app record first and
// never fail a mutation because a send failed.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

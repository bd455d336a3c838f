// Package notify is the boundary to out-of-band delivery channels. The core
// only generates and validates reset tickets; getting them to the user is a
// notifier concern.
package notify

import (
	"context"
	"time"

	"acadcollab.org/internal/obs"
)

// Notifier delivers account notifications to users.
type Notifier interface {
	// PasswordReset hands over a freshly issued reset ticket for delivery.
	PasswordReset(ctx context.Context, email, ticket string, expiresAt time.Time) error
}

// LogNotifier writes notifications to the service log instead of sending
// mail. Development stand-in; swap for a real sender in production.
type LogNotifier struct{}

func (LogNotifier) PasswordReset(ctx context.Context, email, ticket string, expiresAt time.Time) error {
	obs.LogRequest(map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "info",
		"msg":        "password_reset_notification",
		"email":      email,
		"ticket":     ticket,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
	return nil
}

// Discard drops every notification. Useful in tests.
type Discard struct{}

func (Discard) PasswordReset(context.Context, string, string, time.Time) error { return nil }

// Package email delivers notification emails over SMTP.
package email

import "context"

// Sender delivers notification emails. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendNotificationEmail(ctx context.Context, toEmail, subject, heading, message string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendNotificationEmail(context.Context, string, string, string, string) error {
	return nil
}

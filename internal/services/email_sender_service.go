package services

import "context"

// EmailSender is the delivery seam; the Resend client implements it.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

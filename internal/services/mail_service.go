package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

// retryMinAge keeps the retry loop away from messages whose first delivery
// attempt may still be in flight.
const retryMinAge = time.Minute

type OutboxStore interface {
	Create(ctx context.Context, m *model.OutboxEmail) error
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, sendErr string) error
	ListRetryable(ctx context.Context, limit int) ([]model.OutboxEmail, error)
}

// MailService dispatches mail in two phases: the message is persisted as
// intent first, then sent, then its outcome recorded. A delivery failure is
// logged and recorded but never propagated, so it cannot roll back the
// database write that preceded it.
type MailService struct {
	Outbox OutboxStore
	Sender EmailSender
}

func NewMailService(outbox OutboxStore, sender EmailSender) *MailService {
	return &MailService{Outbox: outbox, Sender: sender}
}

// Dispatch queues and attempts delivery of one message. The returned error
// is non-nil only when the intent itself could not be persisted.
func (s *MailService) Dispatch(ctx context.Context, to, subject, html string) error {
	m := &model.OutboxEmail{
		ID:        uuid.NewString(),
		Recipient: to,
		Subject:   subject,
		Body:      html,
	}
	if err := s.Outbox.Create(ctx, m); err != nil {
		return err
	}
	s.attempt(ctx, m)
	return nil
}

// RetryFailed re-attempts delivery of pending and failed messages. Returns
// how many messages were delivered.
func (s *MailService) RetryFailed(ctx context.Context, limit int) (int, error) {
	msgs, err := s.Outbox.ListRetryable(ctx, limit)
	if err != nil {
		return 0, err
	}
	sent := 0
	cutoff := time.Now().Add(-retryMinAge)
	for i := range msgs {
		if msgs[i].CreatedAt.After(cutoff) {
			continue
		}
		if s.attempt(ctx, &msgs[i]) {
			sent++
		}
	}
	return sent, nil
}

func (s *MailService) attempt(ctx context.Context, m *model.OutboxEmail) bool {
	if err := s.Sender.Send(ctx, m.Recipient, m.Subject, m.Body); err != nil {
		log.WithError(err).WithField("recipient", m.Recipient).Error("email delivery failed")
		if markErr := s.Outbox.MarkFailed(ctx, m.ID, err.Error()); markErr != nil {
			log.WithError(markErr).Error("could not record email failure")
		}
		return false
	}
	if err := s.Outbox.MarkSent(ctx, m.ID); err != nil {
		log.WithError(err).Error("could not record email delivery")
	}
	return true
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

// EmailOutboxRepository persists mail as intent before any delivery attempt,
// then records the outcome, so failed sends stay visible and retryable.
type EmailOutboxRepository struct {
	DB *pgxpool.Pool
}

func NewEmailOutboxRepository(db *pgxpool.Pool) *EmailOutboxRepository {
	return &EmailOutboxRepository{DB: db}
}

func (r *EmailOutboxRepository) Create(ctx context.Context, m *model.OutboxEmail) error {
	query := `INSERT INTO email_outbox (id, recipient, subject, body, status)
		VALUES ($1, $2, $3, $4, 'pending')`
	_, err := r.DB.Exec(ctx, query, m.ID, m.Recipient, m.Subject, m.Body)
	return err
}

func (r *EmailOutboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE email_outbox
		SET status='sent', attempts=attempts+1, last_error='', sent_at=now()
		WHERE id=$1`
	_, err := r.DB.Exec(ctx, query, id)
	return err
}

func (r *EmailOutboxRepository) MarkFailed(ctx context.Context, id, sendErr string) error {
	query := `UPDATE email_outbox
		SET status='failed', attempts=attempts+1, last_error=$2
		WHERE id=$1`
	_, err := r.DB.Exec(ctx, query, id, sendErr)
	return err
}

// ListRetryable returns failed or still-pending messages, oldest first.
// Rows younger than a minute are skipped: their first delivery attempt may
// still be in flight.
func (r *EmailOutboxRepository) ListRetryable(ctx context.Context, limit int) ([]model.OutboxEmail, error) {
	query := `SELECT id, recipient, subject, body, status, attempts, last_error, created_at, sent_at
		FROM email_outbox
		WHERE status IN ('pending', 'failed')
		AND created_at < now() - interval '1 minute'
		ORDER BY created_at
		LIMIT $1`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.OutboxEmail{}
	for rows.Next() {
		var m model.OutboxEmail
		if err := rows.Scan(&m.ID, &m.Recipient, &m.Subject, &m.Body, &m.Status,
			&m.Attempts, &m.LastError, &m.CreatedAt, &m.SentAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

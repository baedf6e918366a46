package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) CreatePending(ctx context.Context, p *model.Payment) error {
	query := `INSERT INTO payments (id, order_id, amount, provider, external_ref, status, payload)
		VALUES ($1, $2, $3, $4, $5, 'Pending', $6)`
	_, err := r.DB.Exec(ctx, query, p.ID, p.OrderID, p.Amount, p.Provider, p.ExternalRef, p.Payload)
	return err
}

// GetPendingByOrderID returns the open payment for an order, or nil when none
// exists. An order can accumulate failed rows from expired attempts; only a
// pending one blocks a new attempt.
func (r *PaymentRepository) GetPendingByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment
	query := `SELECT id, order_id, amount, provider, external_ref, status, payload, created_at, updated_at
		FROM payments WHERE order_id=$1 AND status='Pending'
		ORDER BY created_at DESC LIMIT 1`
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Provider, &p.ExternalRef, &p.Status,
		&p.Payload, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// SettlePaid marks the pending payment paid and moves the order to the next
// status in one transaction, so neither update lands without the other.
func (r *PaymentRepository) SettlePaid(ctx context.Context, orderID, transactionID string, payload []byte) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	payQuery := `UPDATE payments
		SET status='Paid', payload=$2, updated_at=now()
		WHERE order_id=$1 AND status='Pending'`
	if _, err := tx.Exec(ctx, payQuery, orderID, payload); err != nil {
		return err
	}

	orderQuery := `UPDATE orders
		SET status='Processing', transaction_id=$2, updated_at=now()
		WHERE id=$1`
	if _, err := tx.Exec(ctx, orderQuery, orderID, transactionID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID string, payload []byte) error {
	query := `UPDATE payments
		SET status='Failed', payload=$2, updated_at=now()
		WHERE order_id=$1 AND status='Pending'`
	_, err := r.DB.Exec(ctx, query, orderID, payload)
	return err
}

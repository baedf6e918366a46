package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

// RefreshTokenRepository is the persisted revocation registry for refresh
// tokens. Keeping the registry in the database means revocation survives
// process restarts and concurrent refreshes don't race on shared state.
type RefreshTokenRepository struct {
	DB *pgxpool.Pool
}

func NewRefreshTokenRepository(db *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{DB: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(ctx, query, token, userID, expiresAt)
	return err
}

func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	query := `SELECT token, user_id, expires_at FROM refresh_tokens WHERE token=$1`
	err := r.DB.QueryRow(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token=$1`
	_, err := r.DB.Exec(ctx, query, token)
	return err
}

// DeleteExpired trims rows whose window has passed. Called opportunistically
// at startup.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

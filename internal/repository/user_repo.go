package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

var ErrNotFound = errors.New("record not found")

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, about, password_hash, password_salt, role,
	is_verified, verification_token, reset_token, reset_expires,
	google_id, github_id, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.About, &u.PasswordHash, &u.PasswordSalt,
		&u.Role, &u.IsVerified, &u.VerificationToken, &u.ResetToken, &u.ResetExpires,
		&u.GoogleID, &u.GithubID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row. Hash, salt, role and verification state are
// taken as prepared by the service layer.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users
		(id, name, email, about, password_hash, password_salt, role, is_verified,
		 verification_token, google_id, github_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.About, u.PasswordHash, u.PasswordSalt,
		u.Role, u.IsVerified, u.VerificationToken, u.GoogleID, u.GithubID)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkVerified flips the user to verified and clears the verification token
// together with any stale reset fields, in one statement. The token must
// still match the stored one.
func (r *UserRepository) MarkVerified(ctx context.Context, email, token string) error {
	query := `UPDATE users
		SET is_verified = TRUE,
		    verification_token = NULL,
		    reset_token = NULL,
		    reset_expires = NULL,
		    updated_at = now()
		WHERE email = $1 AND verification_token = $2`
	tag, err := r.DB.Exec(ctx, query, email, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken opens a password-reset window for the user.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	query := `UPDATE users
		SET reset_token = $2, reset_expires = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.DB.Exec(ctx, query, userID, token, expires)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword consumes the reset token: the new credentials are written and
// the reset fields cleared in the same statement, matched against an
// unexpired window. Returns ErrNotFound when the token is unknown, already
// consumed, or expired.
func (r *UserRepository) ResetPassword(ctx context.Context, token, passwordHash, passwordSalt string) error {
	query := `UPDATE users
		SET password_hash = $2, password_salt = $3,
		    reset_token = NULL, reset_expires = NULL, updated_at = now()
		WHERE reset_token = $1 AND reset_expires > now()`
	tag, err := r.DB.Exec(ctx, query, token, passwordHash, passwordSalt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile updates the mutable profile fields; the password columns are
// only touched when a new hash is supplied.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID, name, about, passwordHash, passwordSalt string) (*model.User, error) {
	query := `UPDATE users
		SET name = $2,
		    about = $3,
		    password_hash = CASE WHEN $4 <> '' THEN $4 ELSE password_hash END,
		    password_salt = CASE WHEN $4 <> '' THEN $5 ELSE password_salt END,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(ctx, query, userID, name, about, passwordHash, passwordSalt))
}

// GetByProvider looks a user up by OAuth provider id. Provider is "google"
// or "github".
func (r *UserRepository) GetByProvider(ctx context.Context, provider, providerID string) (*model.User, error) {
	column := "google_id"
	if provider == "github" {
		column = "github_id"
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + `=$1`
	return scanUser(r.DB.QueryRow(ctx, query, providerID))
}

// LinkProvider stores the OAuth provider id on an existing user.
func (r *UserRepository) LinkProvider(ctx context.Context, userID, provider, providerID string) error {
	column := "google_id"
	if provider == "github" {
		column = "github_id"
	}
	query := `UPDATE users SET ` + column + `=$2, updated_at=now() WHERE id=$1`
	_, err := r.DB.Exec(ctx, query, userID, providerID)
	return err
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload for access and refresh tokens. Only the user
// identifier is carried.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshRegistry is the persisted revocation registry for refresh tokens.
// A refresh token is honored only while its row exists and is unexpired.
type RefreshRegistry interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*model.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

// IssuerConfig carries the per-class signing secrets and lifetimes. The
// secrets are distinct so leakage of one class cannot mint the other.
type IssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	VerifySecret  string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	VerifyTTL  time.Duration
}

type Issuer struct {
	cfg      IssuerConfig
	registry RefreshRegistry
}

func NewIssuer(cfg IssuerConfig, registry RefreshRegistry) *Issuer {
	return &Issuer{cfg: cfg, registry: registry}
}

// IssueAccess signs a short-lived access token for the user.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return sign(userID, []byte(i.cfg.AccessSecret), i.cfg.AccessTTL)
}

// IssueRefresh signs a refresh token and records it in the revocation
// registry.
func (i *Issuer) IssueRefresh(ctx context.Context, userID string) (string, error) {
	expiresAt := time.Now().Add(i.cfg.RefreshTTL)
	token, err := sign(userID, []byte(i.cfg.RefreshSecret), i.cfg.RefreshTTL)
	if err != nil {
		return "", err
	}
	if err := i.registry.Create(ctx, userID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// IssueEmailVerification signs a verification token binding the email
// address being proven.
func (i *Issuer) IssueEmailVerification(email string) (string, error) {
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.cfg.VerifyTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.cfg.VerifySecret))
}

func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	return verify(token, []byte(i.cfg.AccessSecret))
}

func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, []byte(i.cfg.RefreshSecret))
}

// VerifyEmailToken returns the email the token was issued for.
func (i *Issuer) VerifyEmailToken(token string) (string, error) {
	claims := &emailClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(i.cfg.VerifySecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

func sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func verify(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

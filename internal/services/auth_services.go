package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/auth"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

const MinPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrResetNotVerified mirrors ErrEmailNotVerified for the forgot-password
// flow, which uses its own wording.
var ErrResetNotVerified = errors.New("Please verify your email to request a password reset.")

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, email, token string) error
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	ResetPassword(ctx context.Context, token, passwordHash, passwordSalt string) error
	GetByProvider(ctx context.Context, provider, providerID string) (*model.User, error)
	LinkProvider(ctx context.Context, userID, provider, providerID string) error
}

type TokenIssuer interface {
	IssueAccess(userID string) (string, error)
	IssueRefresh(ctx context.Context, userID string) (string, error)
	IssueEmailVerification(email string) (string, error)
	VerifyEmailToken(token string) (string, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

type Mailer interface {
	Dispatch(ctx context.Context, to, subject, html string) error
}

// TokenPair is what a successful sign-in hands back.
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService struct {
	Users    UserStore
	Tokens   TokenIssuer
	Registry auth.RefreshRegistry
	Mail     Mailer

	ClientURL string
	ResetTTL  time.Duration
}

func NewAuthService(users UserStore, tokens TokenIssuer, registry auth.RefreshRegistry, mail Mailer, clientURL string, resetTTL time.Duration) *AuthService {
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Registry:  registry,
		Mail:      mail,
		ClientURL: clientURL,
		ResetTTL:  resetTTL,
	}
}

func validateSignup(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return errors.New("All fields are required")
	}
	if len(name) > 32 {
		return errors.New("Name must be at most 32 characters")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("Invalid email format")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("Password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// Signup creates an unverified user and dispatches the verification email.
// No access token is issued at this stage.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	if err := validateSignup(name, email, password); err != nil {
		return err
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	verificationToken, err := s.Tokens.IssueEmailVerification(email)
	if err != nil {
		return err
	}

	salt := auth.NewSalt()
	u := &model.User{
		ID:                uuid.NewString(),
		Name:              name,
		Email:             email,
		PasswordSalt:      salt,
		PasswordHash:      auth.HashPassword(password, salt),
		Role:              model.RoleStandard,
		IsVerified:        false,
		VerificationToken: &verificationToken,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return err
	}

	verificationURL := s.ClientURL + "/verify-email/" + verificationToken
	html := `
		<h2>Please verify your email</h2>
		<p>Click <a href="` + verificationURL + `">here</a> to verify your email. This link will expire in 24 hours.</p>
	`
	return s.Mail.Dispatch(ctx, email, "Email Verification", html)
}

// VerifyEmail consumes a verification token: the user is flipped to verified
// and the verification token cleared together with any stale reset fields.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.Tokens.VerifyEmailToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.Users.MarkVerified(ctx, email, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Signin authenticates by email and password. Verification is checked before
// the password so an unverified user is rejected regardless of password
// correctness.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !u.IsVerified {
		return nil, nil, ErrEmailNotVerified
	}
	if !auth.VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, nil, ErrBadCredentials
	}
	pair, err := s.issuePair(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// registry is consulted before the signature: a token that was never
// recorded, or whose row has expired, is refused even if it would still
// verify. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	row, err := s.Registry.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRefreshRevoked
		}
		return "", err
	}
	if time.Now().After(row.ExpiresAt) {
		if err := s.Registry.Delete(ctx, refreshToken); err != nil {
			log.WithError(err).Warn("could not delete expired refresh token")
		}
		return "", ErrRefreshRevoked
	}
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", ErrRefreshRevoked
	}
	return s.Tokens.IssueAccess(claims.UserID)
}

// ForgotPassword opens a one-hour reset window and mails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !u.IsVerified {
		return ErrResetNotVerified
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)

	if err := s.Users.SetResetToken(ctx, u.ID, token, time.Now().Add(s.ResetTTL)); err != nil {
		return err
	}

	resetURL := s.ClientURL + "/reset-password/" + token
	html := `
		<h2>Password Reset Request</h2>
		<p>Click <a href="` + resetURL + `">here</a> to reset your password. This link will expire in 1 hour.</p>
	`
	return s.Mail.Dispatch(ctx, u.Email, "Password Reset", html)
}

// ResetPassword consumes the reset token. The token and its unexpired window
// are matched in one statement, so a consumed or expired token fails
// identically.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < MinPasswordLen {
		return fmt.Errorf("Password must be at least %d characters long", MinPasswordLen)
	}
	salt := auth.NewSalt()
	hash := auth.HashPassword(newPassword, salt)
	if err := s.Users.ResetPassword(ctx, token, hash, salt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	return nil
}

// OAuthProfile is the subset of an identity-provider profile the signup
// needs.
type OAuthProfile struct {
	Provider string
	ID       string
	Name     string
	Email    string
}

// OAuthSignin signs a user in through an identity provider, creating or
// linking the account as needed. Provider-backed accounts are verified by
// construction.
func (s *AuthService) OAuthSignin(ctx context.Context, p OAuthProfile) (*model.User, *TokenPair, error) {
	u, err := s.Users.GetByProvider(ctx, p.Provider, p.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}
	if u == nil {
		u, err = s.linkOrCreate(ctx, p)
		if err != nil {
			return nil, nil, err
		}
	}
	pair, err := s.issuePair(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *AuthService) linkOrCreate(ctx context.Context, p OAuthProfile) (*model.User, error) {
	existing, err := s.Users.GetByEmail(ctx, p.Email)
	if err == nil {
		if err := s.Users.LinkProvider(ctx, existing.ID, p.Provider, p.ID); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	providerID := p.ID
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordSalt: auth.NewSalt(),
		Role:         model.RoleStandard,
		IsVerified:   true,
	}
	switch p.Provider {
	case "github":
		u.GithubID = &providerID
	default:
		u.GoogleID = &providerID
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

package services

import "errors"

// Sentinel errors surfaced to clients. Endpoints map these onto status
// codes; the messages match what the frontend displays.
var (
	ErrEmailTaken        = errors.New("Email already exists. Please sign in.")
	ErrUserNotFound      = errors.New("User with that email does not exist. Please signup")
	ErrEmailNotVerified  = errors.New("Please verify your email to sign in.")
	ErrBadCredentials    = errors.New("Email and password don't match")
	ErrInvalidToken      = errors.New("Invalid or expired token")
	ErrInvalidResetToken = errors.New("Invalid or expired token.")
	ErrRefreshRevoked    = errors.New("Invalid refresh token")
	ErrForbidden         = errors.New("Access denied")
	ErrNotFound          = errors.New("not found")
)

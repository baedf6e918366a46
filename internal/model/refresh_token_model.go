package model

import "time"

// RefreshToken is a row in the persisted revocation registry. A refresh
// token is only honored while its row exists and is unexpired.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

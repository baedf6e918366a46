package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32
)

// NewSalt returns a fresh per-password salt. A new salt is generated every
// time a password is set.
func NewSalt() string {
	return uuid.NewString()
}

// HashPassword derives a hex digest from (password, salt). Deterministic:
// the same pair always yields the same digest. An empty password yields an
// empty digest rather than an error; callers reject empty passwords
// explicitly.
func HashPassword(password, salt string) string {
	if password == "" {
		return ""
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the digest and compares in constant time.
func VerifyPassword(password, salt, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

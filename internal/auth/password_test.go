package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	salt := NewSalt()
	a := HashPassword("password1", salt)
	b := HashPassword("password1", salt)

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestHashPassword_SaltChangesDigest(t *testing.T) {
	t.Parallel()

	a := HashPassword("password1", NewSalt())
	b := HashPassword("password1", NewSalt())
	assert.NotEqual(t, a, b)
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	t.Parallel()

	assert.Empty(t, HashPassword("", NewSalt()))
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	salt := NewSalt()
	digest := HashPassword("correct horse", salt)

	assert.True(t, VerifyPassword("correct horse", salt, digest))
	assert.False(t, VerifyPassword("wrong horse", salt, digest))
	assert.False(t, VerifyPassword("correct horse", NewSalt(), digest))
	assert.False(t, VerifyPassword("", salt, digest))
	assert.False(t, VerifyPassword("correct horse", salt, ""))
}

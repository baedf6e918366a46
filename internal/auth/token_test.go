package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

type fakeRegistry struct {
	created []model.RefreshToken
	findOut *model.RefreshToken
	findErr error
}

func (f *fakeRegistry) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	f.created = append(f.created, model.RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt})
	return nil
}

func (f *fakeRegistry) Find(context.Context, string) (*model.RefreshToken, error) {
	return f.findOut, f.findErr
}

func (f *fakeRegistry) Delete(context.Context, string) error { return nil }

func newTestIssuer(reg RefreshRegistry) *Issuer {
	return NewIssuer(IssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		VerifySecret:  "verify-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		VerifyTTL:     24 * time.Hour,
	}, reg)
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(&fakeRegistry{})
	tok, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	claims, err := i.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestIssueRefresh_RecordsInRegistry(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{}
	i := newTestIssuer(reg)

	tok, err := i.IssueRefresh(context.Background(), "user-2")
	require.NoError(t, err)
	require.Len(t, reg.created, 1)
	assert.Equal(t, tok, reg.created[0].Token)
	assert.Equal(t, "user-2", reg.created[0].UserID)

	claims, err := i.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
}

func TestVerify_DistinctSecretsPerClass(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(&fakeRegistry{})

	access, err := i.IssueAccess("user-3")
	require.NoError(t, err)
	refresh, err := i.IssueRefresh(context.Background(), "user-3")
	require.NoError(t, err)

	_, err = i.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = i.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccess_Expired(t *testing.T) {
	t.Parallel()

	i := NewIssuer(IssuerConfig{
		AccessSecret: "s",
		AccessTTL:    -time.Minute,
	}, &fakeRegistry{})

	tok, err := i.IssueAccess("user-4")
	require.NoError(t, err)

	_, err = i.VerifyAccess(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccess_Malformed(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(&fakeRegistry{})
	_, err := i.VerifyAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailToken_RoundTrip(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(&fakeRegistry{})
	tok, err := i.IssueEmailVerification("a@x.com")
	require.NoError(t, err)

	email, err := i.VerifyEmailToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestVerifyEmailToken_WrongSecretClass(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(&fakeRegistry{})
	access, err := i.IssueAccess("user-5")
	require.NoError(t, err)

	_, err = i.VerifyEmailToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

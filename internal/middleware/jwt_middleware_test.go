package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/auth"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

type fakeVerifier struct {
	claims map[string]*auth.Claims
}

func (f *fakeVerifier) VerifyAccess(token string) (*auth.Claims, error) {
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeUserLoader struct {
	users map[string]*model.User
}

func (f *fakeUserLoader) GetByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newTestContext(method, target, userIDParam string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userIDParam != "" {
		c.SetParamNames("userId")
		c.SetParamValues(userIDParam)
	}
	return c, rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireSigninMissingToken(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*auth.Claims{}}
	c, rec := newTestContext(http.MethodGet, "/", "")

	err := RequireSignin(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSigninInvalidToken(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*auth.Claims{}}
	c, rec := newTestContext(http.MethodGet, "/", "")
	c.Request().Header.Set("Authorization", "Bearer bogus")

	err := RequireSignin(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSigninAttachesClaims(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*auth.Claims{
		"good": {UserID: "user-1"},
	}}
	c, rec := newTestContext(http.MethodGet, "/", "")
	c.Request().Header.Set("Authorization", "Bearer good")

	var seen *auth.Claims
	handler := func(c echo.Context) error {
		seen = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	}
	err := RequireSignin(verifier)(handler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestRequireSigninCookieFallback(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*auth.Claims{
		"cookie-token": {UserID: "user-1"},
	}}
	c, rec := newTestContext(http.MethodGet, "/", "")
	c.Request().AddCookie(&http.Cookie{Name: "t", Value: "cookie-token"})

	err := RequireSignin(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireOwnerOrAdminOwner(t *testing.T) {
	owner := &model.User{ID: "user-1", Role: model.RoleStandard}
	loader := &fakeUserLoader{users: map[string]*model.User{"user-1": owner}}
	c, rec := newTestContext(http.MethodGet, "/", "user-1")
	c.Set("auth_claims", &auth.Claims{UserID: "user-1"})

	var seen *model.User
	handler := func(c echo.Context) error {
		seen = ProfileFrom(c)
		return c.NoContent(http.StatusOK)
	}
	err := RequireOwnerOrAdmin(loader)(handler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, owner, seen)
}

func TestRequireOwnerOrAdminMismatchDenied(t *testing.T) {
	loader := &fakeUserLoader{users: map[string]*model.User{
		"user-1": {ID: "user-1", Role: model.RoleStandard},
		"user-2": {ID: "user-2", Role: model.RoleStandard},
	}}
	c, rec := newTestContext(http.MethodGet, "/", "user-1")
	c.Set("auth_claims", &auth.Claims{UserID: "user-2"})

	err := RequireOwnerOrAdmin(loader)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOwnerOrAdminAdminOverride(t *testing.T) {
	target := &model.User{ID: "user-1", Role: model.RoleStandard}
	loader := &fakeUserLoader{users: map[string]*model.User{
		"user-1": target,
		"admin":  {ID: "admin", Role: model.RoleAdmin},
	}}
	c, rec := newTestContext(http.MethodGet, "/", "user-1")
	c.Set("auth_claims", &auth.Claims{UserID: "admin"})

	var seen *model.User
	handler := func(c echo.Context) error {
		seen = ProfileFrom(c)
		return c.NoContent(http.StatusOK)
	}
	err := RequireOwnerOrAdmin(loader)(handler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	// The attached profile is the resource owner, not the admin caller.
	assert.Same(t, target, seen)
}

func TestRequireOwnerOrAdminUnknownUser(t *testing.T) {
	loader := &fakeUserLoader{users: map[string]*model.User{}}
	c, rec := newTestContext(http.MethodGet, "/", "ghost")
	c.Set("auth_claims", &auth.Claims{UserID: "ghost"})

	err := RequireOwnerOrAdmin(loader)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")
	c.Set("auth_profile", &model.User{ID: "user-1", Role: model.RoleStandard})

	err := RequireAdmin(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/", "")
	c.Set("auth_profile", &model.User{ID: "admin", Role: model.RoleAdmin})

	err = RequireAdmin(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

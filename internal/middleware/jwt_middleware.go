package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/auth"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
)

const (
	claimsKey  = "auth_claims"
	profileKey = "auth_profile"
)

// AccessVerifier validates an access token and returns its claims.
type AccessVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
}

// UserLoader resolves a user id to its record for ownership checks.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RequireSignin validates the bearer token (Authorization header, falling
// back to the "t" cookie) and attaches the decoded claims to the context.
// Requests without a valid token are rejected with 401 before any handler
// runs.
func RequireSignin(verifier AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}
			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireOwnerOrAdmin resolves the :userId param, attaches the profile, and
// rejects callers that neither own the resource nor hold the admin role.
// Must run after RequireSignin.
func RequireOwnerOrAdmin(users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			}
			profile, err := users.GetByID(c.Request().Context(), c.Param("userId"))
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "User not found"})
			}
			if profile.ID != claims.UserID {
				caller, err := users.GetByID(c.Request().Context(), claims.UserID)
				if err != nil || !caller.IsAdmin() {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
				}
			}
			c.Set(profileKey, profile)
			return next(c)
		}
	}
}

// RequireAdmin rejects callers whose resolved profile is not an admin. Must
// run after RequireOwnerOrAdmin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := ProfileFrom(c)
		if profile == nil || !profile.IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin resource! Access denied"})
		}
		return next(c)
	}
}

// ClaimsFrom returns the claims attached by RequireSignin, or nil.
func ClaimsFrom(c echo.Context) *auth.Claims {
	if cl, ok := c.Get(claimsKey).(*auth.Claims); ok {
		return cl
	}
	return nil
}

// ProfileFrom returns the user attached by RequireOwnerOrAdmin, or nil.
func ProfileFrom(c echo.Context) *model.User {
	if u, ok := c.Get(profileKey).(*model.User); ok {
		return u
	}
	return nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	cookie, err := c.Cookie("t")
	if err != nil {
		return ""
	}
	return cookie.Value
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/external/oauthprov"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

const oauthStateCookie = "oauth_state"

func oauthRedirectHandler(p *oauthprov.Provider, secure bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start oauth flow"})
		}
		state := hex.EncodeToString(buf)
		c.SetCookie(&http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   secure,
		})
		return c.Redirect(http.StatusTemporaryRedirect, p.AuthURL(state))
	}
}

// consumeOAuthState checks the state cookie against the callback query and
// expires the cookie either way, so a state value cannot be replayed.
func consumeOAuthState(c echo.Context) bool {
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return cookie.Value == c.QueryParam("state")
}

func oauthCallbackHandler(p *oauthprov.Provider, authSvc *services.AuthService, clientURL string, secure bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !consumeOAuthState(c) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid oauth state"})
		}
		code := c.QueryParam("code")
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
		}

		profile, err := p.Exchange(c.Request().Context(), code)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "oauth exchange failed"})
		}

		_, pair, err := authSvc.OAuthSignin(c.Request().Context(), services.OAuthProfile{
			Provider: p.Name,
			ID:       profile.ID,
			Name:     profile.Name,
			Email:    profile.Email,
		})
		if err != nil {
			return errJSON(c, err)
		}

		setAuthCookies(c, pair, secure)
		return c.Redirect(http.StatusTemporaryRedirect, clientURL)
	}
}

func registerOAuthRoutes(g *echo.Group, authSvc *services.AuthService, google, github *oauthprov.Provider, clientURL string, secure bool) {
	if google != nil {
		g.GET("/auth/google", oauthRedirectHandler(google, secure))
		g.GET("/auth/google/callback", oauthCallbackHandler(google, authSvc, clientURL, secure))
	}
	if github != nil {
		g.GET("/auth/github", oauthRedirectHandler(github, secure))
		g.GET("/auth/github/callback", oauthCallbackHandler(github, authSvc, clientURL, secure))
	}
}

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authStatus maps service sentinels onto the HTTP codes the frontend
// expects; anything unrecognized is a 400 with the error's own message.
func authStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrEmailNotVerified),
		errors.Is(err, services.ErrResetNotVerified),
		errors.Is(err, services.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrRefreshRevoked),
		errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(authStatus(err), echo.Map{"error": err.Error()})
}

func signupHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(signupRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := authSvc.Signup(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Verification email sent. Please check your inbox.",
		})
	}
}

func signinHandler(authSvc *services.AuthService, secureCookies bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(signinRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		user, pair, err := authSvc.Signin(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return errJSON(c, err)
		}

		setAuthCookies(c, pair, secureCookies)

		return c.JSON(http.StatusOK, echo.Map{
			"token":        pair.Access,
			"refreshToken": pair.Refresh,
			"user": echo.Map{
				"_id":   user.ID,
				"email": user.Email,
				"name":  user.Name,
				"role":  user.Role,
			},
		})
	}
}

func signoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		clearAuthCookies(c)
		return c.JSON(http.StatusOK, echo.Map{"message": "Signout success"})
	}
}

func verifyEmailHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Token string `json:"token"`
		}
		if err := c.Bind(&req); err != nil || req.Token == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
		}
		if err := authSvc.VerifyEmail(c.Request().Context(), req.Token); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Email verified successfully. You can now log in.",
		})
	}
}

func forgotPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := authSvc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Password reset email sent. Please check your inbox.",
		})
	}
}

func resetPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"newPassword"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := authSvc.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Password has been reset successfully.",
		})
	}
}

func refreshTokenHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Token string `json:"token"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		token := req.Token
		if token == "" {
			if cookie, err := c.Cookie("refreshToken"); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Refresh token required"})
		}
		access, err := authSvc.Refresh(c.Request().Context(), token)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
	}
}

// Cookie names match what the frontend reads: "t" for the access token and
// "refreshToken" for the refresh token.
func setAuthCookies(c echo.Context, pair *services.TokenPair, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     "t",
		Value:    pair.Access,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    pair.Refresh,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"t", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, secureCookies bool) {
	g.POST("/signup", signupHandler(authSvc))
	g.POST("/signin", signinHandler(authSvc, secureCookies))
	g.GET("/signout", signoutHandler())
	g.POST("/verify-email", verifyEmailHandler(authSvc))
	g.POST("/forgot-password", forgotPasswordHandler(authSvc))
	g.POST("/reset-password", resetPasswordHandler(authSvc))
	g.POST("/refresh-token", refreshTokenHandler(authSvc))
}

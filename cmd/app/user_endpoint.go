package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

func readUserHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		// Profile is resolved and authorized by RequireOwnerOrAdmin; the
		// model's json tags keep hash and salt out of the response.
		return c.JSON(http.StatusOK, middleware.ProfileFrom(c))
	}
}

func updateUserHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Name     string `json:"name"`
			About    string `json:"about"`
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		u, err := userSvc.Update(c.Request().Context(), c.Param("userId"), req.Name, req.About, req.Password)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}
}

func purchaseHistoryHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		orders, err := userSvc.PurchaseHistory(c.Request().Context(), c.Param("userId"))
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	}
}

func registerUserRoutes(g *echo.Group, userSvc *services.UserService, signin, ownerOrAdmin echo.MiddlewareFunc) {
	g.GET("/user/:userId", readUserHandler(), signin, ownerOrAdmin)
	g.PUT("/user/:userId", updateUserHandler(userSvc), signin, ownerOrAdmin)
	g.GET("/orders/by/user/:userId", purchaseHistoryHandler(userSvc), signin, ownerOrAdmin)
}

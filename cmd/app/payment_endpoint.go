package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

type createPaymentRequest struct {
	OrderID string `json:"orderId"`
}

func createPaymentHandler(paySvc *services.PaymentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := middleware.ProfileFrom(c)
		if profile == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		req := new(createPaymentRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		redirectURL, err := paySvc.CreateSnapPayment(c.Request().Context(), req.OrderID, profile.ID, profile.IsAdmin())
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"redirectUrl": redirectURL})
	}
}

// paymentNotificationHandler is the gateway webhook. It always answers 200 on
// processed notifications so the gateway stops retrying.
func paymentNotificationHandler(paySvc *services.PaymentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload := map[string]interface{}{}
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := paySvc.HandleNotification(c.Request().Context(), payload); err != nil {
			logrus.WithError(err).Warn("payment notification rejected")
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "OK"})
	}
}

func registerPaymentRoutes(g *echo.Group, paySvc *services.PaymentService, signin, ownerOrAdmin echo.MiddlewareFunc) {
	g.POST("/payment/create/:userId", createPaymentHandler(paySvc), signin, ownerOrAdmin)
	g.POST("/payment/notification", paymentNotificationHandler(paySvc))
}

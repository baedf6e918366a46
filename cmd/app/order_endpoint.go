package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

type createOrderRequest struct {
	Order struct {
		Products      []model.OrderItem `json:"products"`
		TransactionID string            `json:"transaction_id"`
		Amount        float64           `json:"amount"`
		Address       string            `json:"address"`
	} `json:"order"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func createOrderHandler(orderSvc *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := middleware.ProfileFrom(c)
		if profile == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		req := new(createOrderRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		o, err := orderSvc.Create(c.Request().Context(), profile.ID,
			req.Order.Products, req.Order.Amount, req.Order.Address, req.Order.TransactionID)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(orderSvc *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := orderSvc.ListAll(c.Request().Context())
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func orderStatusValuesHandler(orderSvc *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, orderSvc.StatusValues())
	}
}

func updateOrderStatusHandler(orderSvc *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(orderStatusRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := orderSvc.UpdateStatus(c.Request().Context(), c.Param("orderId"), req.Status); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated"})
	}
}

func registerOrderRoutes(g *echo.Group, orderSvc *services.OrderService, signin, ownerOrAdmin echo.MiddlewareFunc) {
	g.POST("/order/create/:userId", createOrderHandler(orderSvc), signin, ownerOrAdmin)
	g.GET("/order/list/:userId", listOrdersHandler(orderSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.GET("/order/status-values/:userId", orderStatusValuesHandler(orderSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.PUT("/order/:orderId/status/:userId", updateOrderStatusHandler(orderSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
}

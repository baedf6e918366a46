package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func listReviewsHandler(revSvc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := revSvc.ListByProduct(c.Request().Context(), c.Param("productId"))
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func readUserReviewHandler(revSvc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		rv, err := revSvc.Get(c.Request().Context(), c.Param("productId"), c.Param("userId"))
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, rv)
	}
}

func addReviewHandler(revSvc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		req := new(reviewRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		rv, created, err := revSvc.AddOrUpdate(c.Request().Context(), c.Param("productId"), claims.UserID, req.Rating, req.Comment)
		if err != nil {
			return errJSON(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, rv)
	}
}

func updateReviewHandler(revSvc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		req := new(reviewRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		rv, err := revSvc.Update(c.Request().Context(), c.Param("reviewId"), claims.UserID, req.Rating, req.Comment)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, rv)
	}
}

func deleteReviewHandler(revSvc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		if err := revSvc.Delete(c.Request().Context(), c.Param("reviewId"), claims.UserID); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted successfully"})
	}
}

func registerReviewRoutes(g *echo.Group, revSvc *services.ReviewService, signin echo.MiddlewareFunc) {
	g.GET("/reviews/:productId", listReviewsHandler(revSvc))
	g.GET("/review/:productId/:userId", readUserReviewHandler(revSvc))

	g.POST("/review/:productId", addReviewHandler(revSvc), signin)
	g.PUT("/review/:reviewId", updateReviewHandler(revSvc), signin)
	g.DELETE("/review/:reviewId", deleteReviewHandler(revSvc), signin)
}

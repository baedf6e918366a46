package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func createCategoryHandler(catSvc *services.CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		cat, err := catSvc.Create(c.Request().Context(), req.Name)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"data": cat})
	}
}

func readCategoryHandler(catSvc *services.CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		cat, err := catSvc.Get(c.Request().Context(), c.Param("categoryId"))
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	}
}

func updateCategoryHandler(catSvc *services.CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		cat, err := catSvc.Update(c.Request().Context(), c.Param("categoryId"), req.Name)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	}
}

func deleteCategoryHandler(catSvc *services.CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := catSvc.Delete(c.Request().Context(), c.Param("categoryId")); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted"})
	}
}

func listCategoriesHandler(catSvc *services.CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := catSvc.List(c.Request().Context())
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func registerCategoryRoutes(g *echo.Group, catSvc *services.CategoryService, signin, ownerOrAdmin echo.MiddlewareFunc) {
	g.GET("/categories", listCategoriesHandler(catSvc))
	g.GET("/category/:categoryId", readCategoryHandler(catSvc))

	g.POST("/category/create/:userId", createCategoryHandler(catSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.PUT("/category/:categoryId/:userId", updateCategoryHandler(catSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.DELETE("/category/:categoryId/:userId", deleteCategoryHandler(catSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
}

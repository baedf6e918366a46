package main

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

// productInputFromForm reads the multipart fields a create or update sends.
func productInputFromForm(c echo.Context) (services.ProductInput, error) {
	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)
	quantity, _ := strconv.Atoi(c.FormValue("quantity"))
	shipping, _ := strconv.ParseBool(c.FormValue("shipping"))

	in := services.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		CategoryID:  c.FormValue("category"),
		Quantity:    quantity,
		Shipping:    shipping,
	}

	file, err := c.FormFile("photo")
	if err != nil {
		// Photo is optional.
		return in, nil
	}
	if file.Size > services.MaxPhotoSize {
		return in, services.ErrPhotoTooLarge
	}
	src, err := file.Open()
	if err != nil {
		return in, err
	}
	defer src.Close()

	in.Photo, err = io.ReadAll(src)
	if err != nil {
		return in, err
	}
	in.PhotoType = file.Header.Get("Content-Type")
	return in, nil
}

func createProductHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, err := productInputFromForm(c)
		if err != nil {
			return errJSON(c, err)
		}
		p, err := prodSvc.Create(c.Request().Context(), in)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusCreated, p)
	}
}

func readProductHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := prodSvc.Get(c.Request().Context(), c.Param("productId"))
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}
}

func updateProductHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, err := productInputFromForm(c)
		if err != nil {
			return errJSON(c, err)
		}
		p, err := prodSvc.Update(c.Request().Context(), c.Param("productId"), in)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := prodSvc.Delete(c.Request().Context(), c.Param("productId")); err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
	}
}

// listProductsHandler supports the storefront queries:
// by sell = /products?sortBy=sold&order=desc&limit=4
// by arrival = /products?sortBy=createdAt&order=desc&limit=4
func listProductsHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		list, err := prodSvc.List(c.Request().Context(), c.QueryParam("sortBy"), c.QueryParam("order"), limit)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func relatedProductsHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		list, err := prodSvc.ListRelated(c.Request().Context(), c.Param("productId"), limit)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func usedCategoriesHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := prodSvc.UsedCategories(c.Request().Context())
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func searchProductsHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		category := c.QueryParam("category")
		if category == "All" {
			category = ""
		}
		list, err := prodSvc.Search(c.Request().Context(), c.QueryParam("search"), category)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

type searchFilterRequest struct {
	SortBy  string `json:"sortBy"`
	Order   string `json:"order"`
	Limit   int    `json:"limit"`
	Skip    int    `json:"skip"`
	Filters struct {
		Category []string  `json:"category"`
		Price    []float64 `json:"price"`
	} `json:"filters"`
}

// listBySearchHandler powers the shop page: category checkboxes and a price
// range, with skip/limit paging.
func listBySearchHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(searchFilterRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		f := repository.SearchFilter{
			CategoryIDs: req.Filters.Category,
			SortBy:      req.SortBy,
			Order:       req.Order,
			Limit:       req.Limit,
			Skip:        req.Skip,
		}
		if len(req.Filters.Price) == 2 {
			f.PriceMin = &req.Filters.Price[0]
			f.PriceMax = &req.Filters.Price[1]
		}
		list, err := prodSvc.ListBySearch(c.Request().Context(), f)
		if err != nil {
			return errJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"size": len(list), "data": list})
	}
}

func productPhotoHandler(prodSvc *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		photo, contentType, err := prodSvc.Photo(c.Request().Context(), c.Param("productId"))
		if err != nil {
			return errJSON(c, err)
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return c.Blob(http.StatusOK, contentType, photo)
	}
}

func registerProductRoutes(g *echo.Group, prodSvc *services.ProductService, signin, ownerOrAdmin echo.MiddlewareFunc) {
	g.GET("/products", listProductsHandler(prodSvc))
	g.GET("/products/search", searchProductsHandler(prodSvc))
	g.GET("/products/related/:productId", relatedProductsHandler(prodSvc))
	g.GET("/products/categories", usedCategoriesHandler(prodSvc))
	g.POST("/products/by/search", listBySearchHandler(prodSvc))
	g.GET("/product/:productId", readProductHandler(prodSvc))
	g.GET("/product/photo/:productId", productPhotoHandler(prodSvc))

	g.POST("/product/create/:userId", createProductHandler(prodSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.PUT("/product/:productId/:userId", updateProductHandler(prodSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
	g.DELETE("/product/:productId/:userId", deleteProductHandler(prodSvc), signin, ownerOrAdmin, middleware.RequireAdmin)
}

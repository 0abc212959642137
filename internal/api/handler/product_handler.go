package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// List handles GET /v1/products. Non-admin viewers receive only active
// products; the filtering happens server-side from the caller's role.
//
// @Summary      List catalog products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.Request().Context(), principal.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products)
}

// Create handles POST /v1/products. Admin only.
//
// @Summary      Create a catalog product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, product)
}

// SetActive handles PATCH /v1/products/:id/active. Admin only.
//
// @Summary      Toggle a product's active flag
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Product id"
// @Param        body  body      setActiveRequest  true  "Activation flag"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Router       /v1/products/{id}/active [patch]
func (h *ProductHandler) SetActive(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.SetProductActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

// Delete handles DELETE /v1/products/:id. Admin only.
//
// @Summary      Delete a catalog product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.service.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

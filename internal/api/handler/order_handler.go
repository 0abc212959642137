package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerID int64              `json:"customerId" validate:"required,gt=0"`
	Items      []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// Create handles POST /v1/orders. Customers create their own orders (the
// route guard matches the body customerId against the caller); admins may
// create on behalf of any customer.
//
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  map[string]any
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	items := make([]ports.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ports.OrderLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		CustomerID:     req.CustomerID,
		Items:          items,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return respond(c, status, result.Order)
}

// Get handles GET /v1/orders/:id. The response shape is selected
// server-side from the caller's role and ownership: full detail for admins,
// masked supplier identity for the owning customer, own-interest detail for
// suppliers.
//
// @Summary      Get an order with its supplier interests
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	composed, err := h.service.GetOrder(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, composed)
}

// List handles GET /v1/orders. Admins and suppliers see all orders,
// customers only their own. Default sort is order id descending.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Param        sort   query     string  false  "Sort field (id, created_at)"
// @Param        dir    query     string  false  "Sort direction (asc, desc)"
// @Success      200    {object}  map[string]any
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	input := ports.ListOrdersInput{
		Viewer: principal,
		SortBy: c.QueryParam("sort"),
		Page:   page,
		Limit:  limit,
	}
	switch c.QueryParam("dir") {
	case "asc":
		asc := false
		input.SortDesc = &asc
	case "desc":
		desc := true
		input.SortDesc = &desc
	}

	result, err := h.service.ListOrders(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

// Delete handles DELETE /v1/orders/:id. Allowed for admins and the order's
// owning customer; lines are removed with the order.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      204  "No Content"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.service.DeleteOrder(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/core/ports"
)

// InterestHandler handles HTTP requests for supplier interests.
type InterestHandler struct {
	service ports.InterestService
}

func NewInterestHandler(service ports.InterestService) *InterestHandler {
	return &InterestHandler{service: service}
}

type upsertInterestRequest struct {
	SupplierID   int64   `json:"supplierId" validate:"required,gt=0"`
	OrderID      int64   `json:"orderId" validate:"required,gt=0"`
	IsInterested *bool   `json:"isInterested" validate:"required"`
	Notes        *string `json:"notes"`
}

// Upsert handles PUT /v1/supplier-interests. The route guard matches the
// body supplierId against the caller, so a supplier can only toggle their
// own stance. Repeated calls for the same order update the existing row.
//
// @Summary      Record or update a supplier's interest in an order
// @Tags         supplier-interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upsertInterestRequest  true  "Interest details"
// @Success      200   {object}  map[string]any
// @Success      201   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/supplier-interests [put]
func (h *InterestHandler) Upsert(c echo.Context) error {
	var req upsertInterestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.UpsertInterest(c.Request().Context(), ports.UpsertInterestInput{
		SupplierID:   req.SupplierID,
		OrderID:      req.OrderID,
		IsInterested: *req.IsInterested,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return respond(c, status, result.Interest)
}

// ListByOrder handles GET /v1/supplier-interests/order/:orderId. Admins see
// the unmasked rows; the order's owning customer sees prefix-masked
// supplier names.
//
// @Summary      List the supplier interests on an order
// @Tags         supplier-interests
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      int  true  "Order id"
// @Success      200      {object}  map[string]any
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /v1/supplier-interests/order/{orderId} [get]
func (h *InterestHandler) ListByOrder(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	rows, err := h.service.ListByOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rows)
}

// ListBySupplier handles GET /v1/supplier-interests/supplier/:supplierId.
// Allowed for admins and the supplier themselves (role-or-owner guard on
// the supplierId path parameter).
//
// @Summary      List one supplier's interest rows
// @Tags         supplier-interests
// @Produce      json
// @Security     BearerAuth
// @Param        supplierId  path      int  true  "Supplier id"
// @Success      200         {object}  map[string]any
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /v1/supplier-interests/supplier/{supplierId} [get]
func (h *InterestHandler) ListBySupplier(c echo.Context) error {
	supplierID, err := strconv.ParseInt(c.Param("supplierId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid supplier id")
	}

	rows, err := h.service.ListBySupplier(c.Request().Context(), supplierID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rows)
}

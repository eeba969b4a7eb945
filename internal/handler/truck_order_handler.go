package handler

import (
	"net/http"
	"strings"
	"time"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// オーナー側の注文管理
type TruckOrderHandler struct {
	uc *usecase.TruckOrderUsecase
}

func NewTruckOrderHandler(uc *usecase.TruckOrderUsecase) *TruckOrderHandler {
	return &TruckOrderHandler{uc: uc}
}

type updateOrderStatusRequest struct {
	OrderStatus             string `json:"orderStatus"`
	EstimatedEarliestPickup string `json:"estimatedEarliestPickup"`
}

func (h *TruckOrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	owner := g.Require(authz.CapManageTruckOrders, msgOwnerOnly)

	api.GET("/order/truckOrders", h.list, owner...)
	api.GET("/order/truckOwner/:id", h.detail, owner...)
	api.PUT("/order/updateStatus/:id", h.updateStatus, owner...)
	api.GET("/trucks/:id/orders", h.listForTruck, owner...)
	api.PUT("/orders/:id/status", h.updateStatus, owner...)
}

func (h *TruckOrderHandler) list(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	orders, err := h.uc.ListForOwner(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *TruckOrderHandler) listForTruck(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	orders, err := h.uc.ListForTruck(c.Request().Context(), p, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *TruckOrderHandler) detail(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Request().Context(), p, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": out})
}

func (h *TruckOrderHandler) updateStatus(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	in := usecase.UpdateOrderStatusInput{Status: req.OrderStatus}
	if s := strings.TrimSpace(req.EstimatedEarliestPickup); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "estimatedEarliestPickup must be an RFC3339 timestamp")
		}
		in.EstimatedEarliestPickup = &t
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), p, pathID(c, "id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated successfully", "order": o})
}

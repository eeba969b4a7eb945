package handler

import (
	"net/http"
	"strings"
	"time"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 客側の注文
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type placeOrderRequest struct {
	ScheduledPickupTime string `json:"scheduledPickupTime"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	shop := g.Require(authz.CapShop, msgShopOnly)

	api.POST("/order/new", h.place, shop...)
	api.GET("/order/myOrders", h.listMine, shop...)
	api.GET("/order/details/:id", h.detail, shop...)
	api.POST("/order/cancel/:id", h.cancel, shop...)

	//旧パス
	api.POST("/orders", h.place, shop...)
	api.GET("/orders", h.listMine, shop...)
	api.GET("/orders/:id", h.detail, shop...)
	api.GET("/orderitems/:id", h.items, shop...)
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	var pickup time.Time
	if s := strings.TrimSpace(req.ScheduledPickupTime); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "scheduledPickupTime must be an RFC3339 timestamp")
		}
		pickup = t
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		ScheduledPickupTime: pickup,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order placed successfully", "order": out})
}

func (h *OrderHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	orders, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetMine(c.Request().Context(), userID, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": out})
}

// 明細だけ（本人の注文のみ）
func (h *OrderHandler) items(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetMine(c.Request().Context(), userID, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orderItems": out.Items})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	o, err := h.uc.Cancel(c.Request().Context(), userID, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order cancelled successfully", "order": o})
}

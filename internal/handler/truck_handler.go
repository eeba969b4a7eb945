package handler

import (
	"net/http"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /trucks のHTTP
type TruckHandler struct {
	uc *usecase.TruckUsecase
}

// DI
func NewTruckHandler(uc *usecase.TruckUsecase) *TruckHandler {
	return &TruckHandler{uc: uc}
}

type createTruckRequest struct {
	TruckName string `json:"truckName"`
	TruckLogo string `json:"truckLogo"`
}

// nilは変更しない
type updateTruckRequest struct {
	TruckName   *string `json:"truckName"`
	TruckLogo   *string `json:"truckLogo"`
	OrderStatus *string `json:"orderStatus"`
}

type updateTruckOrderStatusRequest struct {
	TruckID     int64  `json:"truckId"`
	OrderStatus string `json:"orderStatus"`
}

func (h *TruckHandler) RegisterRoutes(api *echo.Group, g Guards) {
	owner := g.Require(authz.CapManageTrucks, msgOwnerOnly)

	//公開
	api.GET("/trucks", h.list)
	api.GET("/trucks/view", h.listOrderable)
	api.GET("/trucks/:id", h.detail)
	api.GET("/trucks/:id/menu", h.menu)

	//オーナー
	api.GET("/mytrucks", h.mine, owner...)
	api.GET("/trucks/myTruck", h.myTruck, owner...)
	api.POST("/trucks", h.create, g.Authenticated()...)
	api.PUT("/trucks/updateOrderStatus", h.updateOrderStatus, owner...)
	api.PUT("/trucks/:id", h.update, owner...)
	api.DELETE("/trucks/:id", h.delete, owner...)
}

func (h *TruckHandler) list(c echo.Context) error {
	trucks, err := h.uc.ListPublic(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trucks": trucks})
}

// 注文受付中のみ（配列のまま返す）
func (h *TruckHandler) listOrderable(c echo.Context) error {
	trucks, err := h.uc.ListOrderable(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, trucks)
}

func (h *TruckHandler) detail(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return badRequest(c, "invalid id")
	}
	t, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"truck": t})
}

func (h *TruckHandler) menu(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return badRequest(c, "invalid id")
	}
	items, err := h.uc.Menu(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"menuItems": items})
}

func (h *TruckHandler) mine(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	trucks, err := h.uc.ListMine(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trucks": trucks})
}

func (h *TruckHandler) myTruck(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	t, err := h.uc.FirstMine(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"truck": t})
}

func (h *TruckHandler) create(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req createTruckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	t, err := h.uc.Create(c.Request().Context(), p, usecase.CreateTruckInput{
		Name: req.TruckName,
		Logo: req.TruckLogo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Truck created successfully", "truck": t})
}

func (h *TruckHandler) update(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id := pathID(c, "id")
	if id == 0 {
		return badRequest(c, "invalid id")
	}

	var req updateTruckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	t, err := h.uc.Update(c.Request().Context(), p, id, usecase.UpdateTruckInput{
		Name:        req.TruckName,
		Logo:        req.TruckLogo,
		OrderStatus: req.OrderStatus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Truck updated successfully", "truck": t})
}

func (h *TruckHandler) updateOrderStatus(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateTruckOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	t, err := h.uc.UpdateOrderStatus(c.Request().Context(), p, req.TruckID, req.OrderStatus)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Truck order status updated successfully", "truck": t})
}

func (h *TruckHandler) delete(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id := pathID(c, "id")
	if id == 0 {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Truck deleted successfully"})
}

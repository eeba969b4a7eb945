package handler

import (
	"net/http"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// メニューのHTTP
type MenuItemHandler struct {
	uc *usecase.MenuItemUsecase
}

func NewMenuItemHandler(uc *usecase.MenuItemUsecase) *MenuItemHandler {
	return &MenuItemHandler{uc: uc}
}

type createMenuItemRequest struct {
	TruckID     int64            `json:"truckId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

type updateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Status      *string          `json:"status"`
}

func (h *MenuItemHandler) RegisterRoutes(api *echo.Group, g Guards) {
	owner := g.Require(authz.CapManageTrucks, msgOwnerOnly)

	//公開（配列のまま返す）
	api.GET("/menuItem/truck/:truckId", h.listForTruck)
	api.GET("/menuItem/truck/:truckId/category/:category", h.listForTruck)

	api.POST("/menuItem/new", h.create, owner...)
	api.POST("/trucks/:id/menu", h.createForTruck, owner...)
	api.GET("/menuItem/view", h.listMine, owner...)
	api.GET("/menuItem/view/:id", h.detail, owner...)
	api.PUT("/menuItem/edit/:id", h.update, owner...)
	api.DELETE("/menuItem/delete/:id", h.delete, owner...)
	api.PUT("/menu/:id", h.update, owner...)
	api.DELETE("/menu/:id", h.delete, owner...)
}

func (h *MenuItemHandler) listForTruck(c echo.Context) error {
	truckID := pathID(c, "truckId")
	if truckID == 0 {
		return badRequest(c, "invalid truckId")
	}
	items, err := h.uc.ListForTruck(c.Request().Context(), truckID, c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuItemHandler) create(c echo.Context) error {
	var req createMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.doCreate(c, req)
}

// POST /trucks/:id/menu はパスのトラックに追加
func (h *MenuItemHandler) createForTruck(c echo.Context) error {
	truckID := pathID(c, "id")
	if truckID == 0 {
		return badRequest(c, "invalid id")
	}
	var req createMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.TruckID = truckID
	return h.doCreate(c, req)
}

func (h *MenuItemHandler) doCreate(c echo.Context, req createMenuItemRequest) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	item, err := h.uc.Create(c.Request().Context(), p, usecase.CreateMenuItemInput{
		TruckID:     req.TruckID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Menu item created successfully", "menuItem": item})
}

func (h *MenuItemHandler) listMine(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	items, err := h.uc.ListMine(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"menuItems": items})
}

func (h *MenuItemHandler) detail(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	item, err := h.uc.GetMine(c.Request().Context(), p, pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"menuItem": item})
}

func (h *MenuItemHandler) update(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	item, err := h.uc.Update(c.Request().Context(), p, pathID(c, "id"), usecase.UpdateMenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Menu item updated successfully", "menuItem": item})
}

// 論理削除
func (h *MenuItemHandler) delete(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), p, pathID(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Menu item deleted successfully"})
}

package handler

import (
	"net/http"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// priceは受け取っても使わない（サーバー側の価格で保存）
type AddCartRequest struct {
	ItemID     int64 `json:"itemId"`
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// /cart, /cart/{id} と旧パスを登録
func (h *CartHandler) RegisterRoutes(api *echo.Group, g Guards) {
	cart := api.Group("/cart", g.Require(authz.CapShop, msgShopOnly)...)

	cart.GET("", h.getCart)
	cart.GET("/view", h.getCart)
	cart.POST("", h.addToCart)
	cart.POST("/new", h.addToCart)
	cart.PUT("/:id", h.updateItem)
	cart.PUT("/edit/:id", h.updateItem)
	cart.DELETE("/:id", h.deleteItem)
	cart.DELETE("/delete/:id", h.deleteItem)
	cart.DELETE("", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	itemID := req.ItemID
	if itemID == 0 {
		itemID = req.MenuItemID
	}

	entry, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddCartInput{
		MenuItemID: itemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Item added to cart", "cartItem": entry})
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	entry, err := h.uc.UpdateQuantity(c.Request().Context(), userID, pathID(c, "id"), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart item updated", "cartItem": entry})
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.DeleteEntry(c.Request().Context(), userID, pathID(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Cart cleared"})
}

package handler

import (
	"net/http"

	"foodtruck/internal/authz"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin のHTTP
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

// DI
func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type updateUserStatusRequest struct {
	Status string `json:"status"`
}

type updateTruckStatusRequest struct {
	TruckStatus string `json:"truckStatus"`
}

// 全部adminのみ
func (h *AdminHandler) RegisterRoutes(api *echo.Group, g Guards) {
	admin := api.Group("/admin", g.Require(authz.CapAdmin, msgAdminOnly)...)

	admin.GET("/stats", h.stats)
	admin.GET("/users", h.users)
	admin.PUT("/users/:id/status", h.updateUserStatus)
	admin.DELETE("/users/:id", h.deleteUser)
	admin.GET("/trucks", h.trucks)
	admin.PUT("/trucks/:id/status", h.updateTruckStatus)
	admin.GET("/trucks/:id/menu", h.truckMenu)
	admin.DELETE("/trucks/:id", h.deleteTruck)
	admin.GET("/pending", h.pending)
	admin.PUT("/pending/:id/approve", h.approve)
	admin.PUT("/pending/:id/reject", h.reject)
}

func (h *AdminHandler) stats(c echo.Context) error {
	s, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) users(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *AdminHandler) updateUserStatus(c echo.Context) error {
	var req updateUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	u, err := h.uc.UpdateUserStatus(c.Request().Context(), pathID(c, "id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User status updated successfully", "user": u})
}

func (h *AdminHandler) deleteUser(c echo.Context) error {
	if err := h.uc.DeleteUser(c.Request().Context(), pathID(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

func (h *AdminHandler) trucks(c echo.Context) error {
	trucks, err := h.uc.ListTrucks(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trucks": trucks})
}

func (h *AdminHandler) updateTruckStatus(c echo.Context) error {
	var req updateTruckStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	t, err := h.uc.UpdateTruckStatus(c.Request().Context(), pathID(c, "id"), req.TruckStatus)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Truck status updated successfully", "truck": t})
}

func (h *AdminHandler) truckMenu(c echo.Context) error {
	items, err := h.uc.TruckMenu(c.Request().Context(), pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"menuItems": items})
}

func (h *AdminHandler) deleteTruck(c echo.Context) error {
	if err := h.uc.DeleteTruck(c.Request().Context(), pathID(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Truck deleted successfully"})
}

func (h *AdminHandler) pending(c echo.Context) error {
	users, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pendingUsers": users})
}

func (h *AdminHandler) approve(c echo.Context) error {
	u, err := h.uc.Approve(c.Request().Context(), pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Truck owner and truck approved successfully", "user": u})
}

func (h *AdminHandler) reject(c echo.Context) error {
	u, err := h.uc.Reject(c.Request().Context(), pathID(c, "id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Truck owner registration rejected and removed", "user": u})
}

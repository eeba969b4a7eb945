package handler

import (
	"net/http"

	"foodtruck/internal/middleware"
	"foodtruck/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 本人のプロフィールとセッション
type AccountHandler struct {
	uc           *usecase.AccountUsecase
	cookieSecure bool
}

func NewAccountHandler(uc *usecase.AccountUsecase, cookieSecure bool) *AccountHandler {
	return &AccountHandler{uc: uc, cookieSecure: cookieSecure}
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Birthdate *string `json:"birthdate"`
}

func (h *AccountHandler) RegisterRoutes(api *echo.Group, g Guards) {
	authed := g.Authenticated()

	api.GET("/users/me", h.me, authed...)
	api.PUT("/users/me", h.updateMe, authed...)
	api.DELETE("/users/me", h.deleteMe, authed...)
	api.GET("/sessions", h.sessions, authed...)
	api.DELETE("/sessions/:id", h.revoke, authed...)
	api.DELETE("/sessions", h.revokeAll, authed...)
}

func (h *AccountHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	u, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *AccountHandler) updateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	in := usecase.UpdateProfileInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Birthdate != nil {
		d, ok := parseDate(*req.Birthdate)
		if !ok || d == nil {
			return badRequest(c, "Invalid birthdate")
		}
		in.Birthdate = d
	}

	u, err := h.uc.UpdateMe(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "user": u})
}

// 退会したらクッキーも消す
func (h *AccountHandler) deleteMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.DeleteMe(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	clearSessionCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

func (h *AccountHandler) sessions(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.ListSessions(c.Request().Context(), userID, middleware.SessionTokenFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": list})
}

func (h *AccountHandler) revoke(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.RevokeSession(c.Request().Context(), userID, pathID(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Session revoked"})
}

// 今のセッションも含めて全部消す
func (h *AccountHandler) revokeAll(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.RevokeAll(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	clearSessionCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, echo.Map{"message": "All sessions revoked", "count": n})
}

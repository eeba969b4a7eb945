package handler

import (
	"errors"
	"net/http"
	"time"

	"foodtruck/internal/domain/model"
	"foodtruck/internal/middleware"
	auth "foodtruck/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	sessionTTL   time.Duration             // tokenクッキーのMax-Age
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	sessionTTL time.Duration,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// POST /user のリクエストボディ。
type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Birthdate string `json:"birthdate"`
	TruckName string `json:"truckName"`
}

// POST /user/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUserResponse struct {
	Message          string     `json:"message"`
	User             model.User `json:"user"`
	TruckName        string     `json:"truckName,omitempty"`
	RequiresApproval bool       `json:"requiresApproval,omitempty"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, g Guards) {
	api.POST("/user", h.register, g.Limiter)
	api.POST("/user/login", h.login, g.Limiter)
	api.POST("/logout", h.logout, g.Session)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	birthdate, ok := parseDate(req.Birthdate)
	if !ok {
		return badRequest(c, "Invalid birthdate")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Birthdate: birthdate,
		TruckName: req.TruckName,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	//承認待ちはクッキーを出さない
	if out.RequiresApproval {
		return c.JSON(http.StatusCreated, authUserResponse{
			Message:          "Registration submitted. Your account is pending admin approval.",
			User:             out.User,
			TruckName:        out.TruckName,
			RequiresApproval: true,
		})
	}

	if out.Session != nil {
		h.setSessionCookie(c, out.Session.Token)
	}
	return c.JSON(http.StatusCreated, authUserResponse{
		Message: "User registered successfully",
		User:    out.User,
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	h.setSessionCookie(c, out.Session.Token)
	return c.JSON(http.StatusOK, authUserResponse{
		Message: "Login successful",
		User:    out.User,
	})
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.loginUC.Logout(c.Request().Context(), middleware.SessionTokenFrom(c)); err != nil {
		return writeError(c, err)
	}
	clearSessionCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// authのエラー→HTTP
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrTruckNameRequired),
		errors.Is(err, auth.ErrLoginMissingFields):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyExists),
		errors.Is(err, auth.ErrTruckNameTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrPendingApproval),
		errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		return writeError(c, err)
	}
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

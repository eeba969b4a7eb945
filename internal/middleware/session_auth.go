package middleware

import (
	"context"
	"errors"
	"net/http"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	auth "foodtruck/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxUserStatusKey   = "user_status"   // model.UserStatus
	CtxSessionTokenKey = "session_token" // string
)

// セッションを入れるクッキー名
const SessionCookieName = "token"

// SessionStoreのうちgateが使う部分
type SessionValidator interface {
	Validate(ctx context.Context, token string) (model.SessionWithUser, error)
}

// tokenクッキーからユーザーを解決する。失敗したらhandlerまで進めない
func SessionAuth(sessions SessionValidator, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized: No token provided"))
			}

			found, err := sessions.Validate(c.Request().Context(), cookie.Value)
			if errors.Is(err, auth.ErrSessionNotFound) {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized: Invalid or expired session"))
			}
			if err != nil {
				log.WithError(err).WithField("path", c.Path()).Error("session lookup failed")
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, found.User.ID)
			c.Set(CtxUserRoleKey, found.User.Role)
			c.Set(CtxUserStatusKey, found.User.Status)
			c.Set(CtxSessionTokenKey, found.Session.Token)

			return next(c)
		}
	}
}

// PrincipalFrom はSessionAuthが入れた値を取り出す
func PrincipalFrom(c echo.Context) (authz.Principal, bool) {
	userID, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return authz.Principal{}, false
	}
	role, ok := c.Get(CtxUserRoleKey).(model.Role)
	if !ok || role == "" {
		return authz.Principal{}, false
	}
	status, _ := c.Get(CtxUserStatusKey).(model.UserStatus)

	return authz.Principal{UserID: userID, Role: role, Status: status}, true
}

func SessionTokenFrom(c echo.Context) string {
	token, _ := c.Get(CtxSessionTokenKey).(string)
	return token
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

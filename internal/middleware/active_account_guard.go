package middleware

import (
	"net/http"

	"foodtruck/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// セッションが生きていても、停止・承認待ちのユーザーは通さない。
// statusはSessionAuthがDBから毎回読んだ値。
func ActiveAccountGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized: No token provided"))
			}

			switch p.Status {
			case model.UserStatusActive:
			case model.UserStatusPending:
				return c.JSON(http.StatusForbidden, errorJSON("Your account is pending admin approval. Please wait for approval to login."))
			default:
				//adminは停止扱いにしない
				if p.Role != model.RoleAdmin {
					return c.JSON(http.StatusForbidden, errorJSON("Your account has been deactivated"))
				}
			}

			return next(c)
		}
	}
}

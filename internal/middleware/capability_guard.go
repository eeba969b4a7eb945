package middleware

import (
	"net/http"

	"foodtruck/internal/authz"

	"github.com/labstack/echo/v4"
)

// contextのroleが指定の権限を持っているか確認します。
// 未ログインは401、権限なしは403。
func RequireCapability(want authz.Capability, deniedMsg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized: No token provided"))
			}

			if !p.Can(want) {
				return c.JSON(http.StatusForbidden, errorJSON(deniedMsg))
			}

			return next(c)
		}
	}
}

package handler

import (
	"foodtruck/internal/authz"
	"foodtruck/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ルート登録で使うミドルウェア
type Guards struct {
	Session echo.MiddlewareFunc
	Limiter echo.MiddlewareFunc
}

func NewGuards(sessions middleware.SessionValidator, limiter *middleware.IPRateLimiter, log *logrus.Logger) Guards {
	return Guards{
		Session: middleware.SessionAuth(sessions, log),
		Limiter: middleware.RateLimit(limiter),
	}
}

// ログイン済みかつactive
func (g Guards) Authenticated() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.Session, middleware.ActiveAccountGuard()}
}

// ログイン済み＋権限
func (g Guards) Require(want authz.Capability, deniedMsg string) []echo.MiddlewareFunc {
	return append(g.Authenticated(), middleware.RequireCapability(want, deniedMsg))
}

const (
	msgShopOnly  = "Access denied. Customers only."
	msgOwnerOnly = "Access denied. Truck owners only."
	msgAdminOnly = "Access denied. Admin only."
)

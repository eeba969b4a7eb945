package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foodtruck/internal/infra/metrics"
	"foodtruck/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// シャットダウン待ち時間
const shutdownTimeout = 10 * time.Second

func newEcho(db *gorm.DB, log *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/healthz", healthz(db))

	return e
}

// DBにpingできればOK
func healthz(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

// Run はctxがキャンセルされるまでサーバーとsweeperを動かす
func (a *App) Run(ctx context.Context) error {
	if err := a.Sweeper.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.cfg.Addr()).Info("server started")
		if err := a.Echo.Start(a.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Error("server shutdown failed")
	}
	if err := a.Sweeper.Stop(shutdownCtx); err != nil {
		a.log.WithError(err).Error("session sweeper stop failed")
	}

	a.log.Info("server stopped")
	return runErr
}

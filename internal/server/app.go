package server

import (
	"foodtruck/internal/config"
	"foodtruck/internal/handler"
	infrarepo "foodtruck/internal/infra/repository"
	"foodtruck/internal/middleware"
	"foodtruck/internal/scheduler"
	"foodtruck/internal/usecase"
	auth "foodtruck/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App はDIしたサーバー一式
type App struct {
	Echo    *echo.Echo
	Sweeper *scheduler.SessionSweeper

	cfg config.Config
	log *logrus.Logger
}

// NewApp は repository → usecase → handler の順に組み立てる
func NewApp(cfg config.Config, db *gorm.DB, log *logrus.Logger, clock usecase.Clock) *App {
	//Repository（GORM実装）
	repos := infrarepo.NewRepos(db)
	txm := infrarepo.NewTxManagerGorm(db)

	//セッション
	sessionStore := auth.NewSessionStore(repos.Sessions(), clock, cfg.SessionTTL)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()

	//Usecase
	registerUC := auth.NewRegisterUserUsecase(repos.Users(), txm, hasher, sessionStore)
	loginUC := auth.NewLoginUsecase(repos.Users(), verifier, sessionStore)
	truckUC := usecase.NewTruckUsecase(txm, repos.Trucks(), repos.MenuItems())
	menuUC := usecase.NewMenuItemUsecase(repos.Trucks(), repos.MenuItems())
	cartUC := usecase.NewCartUsecase(txm, repos.Carts())
	orderUC := usecase.NewOrderUsecase(txm, repos.Orders(), repos.OrderItems(), clock)
	truckOrderUC := usecase.NewTruckOrderUsecase(txm, repos.Trucks(), repos.Orders(), repos.OrderItems(), log)
	adminUC := usecase.NewAdminUsecase(txm, repos.Users(), repos.Trucks(), repos.MenuItems(), log)
	accountUC := usecase.NewAccountUsecase(txm, repos.Users(), repos.Sessions(), hasher, clock)

	limiter := middleware.NewIPRateLimiter(cfg.LoginRatePerSec, cfg.LoginBurst)
	guards := handler.NewGuards(sessionStore, limiter, log)

	routes := []routeRegistrar{
		handler.NewAuthHandler(registerUC, loginUC, cfg.SessionTTL, cfg.CookieSecure),
		handler.NewTruckHandler(truckUC),
		handler.NewMenuItemHandler(menuUC),
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC),
		handler.NewTruckOrderHandler(truckOrderUC),
		handler.NewAdminHandler(adminUC),
		handler.NewAccountHandler(accountUC, cfg.CookieSecure),
	}

	e := newEcho(db, log)
	api := e.Group("/api/v1")
	for _, r := range routes {
		r.RegisterRoutes(api, guards)
	}

	sweeper := scheduler.NewSessionSweeper(repos.Sessions(), cfg.SweepSchedule, clock.Now, log)
	sweeper.AddJob("rate limiter eviction", limiterEvictSchedule, func() {
		if n := limiter.EvictIdle(clock.Now()); n > 0 {
			log.WithField("evicted", n).Debug("idle rate limiters removed")
		}
	})

	return &App{
		Echo:    e,
		Sweeper: sweeper,
		cfg:     cfg,
		log:     log,
	}
}

// 使われていないIPのlimiterを捨てる間隔
const limiterEvictSchedule = "@every 5m"

type routeRegistrar interface {
	RegisterRoutes(api *echo.Group, g handler.Guards)
}

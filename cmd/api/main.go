package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodtruck/internal/config"
	"foodtruck/internal/infra/db"
	"foodtruck/internal/infra/logging"
	"foodtruck/internal/server"
	"foodtruck/internal/usecase"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	//金額はJSONの数値で返す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(db.Options{
		Driver:        cfg.DBDriver,
		SQLitePath:    cfg.SQLitePath,
		SlowThreshold: cfg.DBSlowQuery,
		Logger:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("db migrate failed")
	}

	app := server.NewApp(cfg, gormDB, log, usecase.SystemClock{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.WithError(err).Error("server exited")
		os.Exit(1)
	}
}

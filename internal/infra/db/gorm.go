package db

import (
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	// postgres / sqlite
	Driver string
	// sqlite用のファイル（":memory:"も可）
	SQLitePath    string
	SlowThreshold time.Duration
	Logger        *logrus.Logger
}

// Connect はDBに接続して *gorm.DB を返す。
func Connect(opt Options) (*gorm.DB, error) {
	cfg := gormConfig(opt)

	if opt.Driver == "sqlite" {
		path := opt.SQLitePath
		if path == "" {
			path = "foodtruck.db"
		}
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, err
		}
		//インメモリは接続ごとに別DBになるので1本に固定
		if path == ":memory:" {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	}

	return gorm.Open(postgres.Open(PostgresDSN()), cfg)
}

// DATABASE_URL があれば最優先で使う
func PostgresDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "foodtruck")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

func gormConfig(opt Options) *gorm.Config {
	cfg := &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	//SQLログはlogrusへ流す
	if opt.Logger != nil {
		slow := opt.SlowThreshold
		if slow <= 0 {
			slow = 200 * time.Millisecond
		}
		cfg.Logger = gormlogger.New(opt.Logger, gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogLevel(opt.Logger.GetLevel()),
			IgnoreRecordNotFoundError: true,
		})
	}
	return cfg
}

func gormLogLevel(l logrus.Level) gormlogger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return gormlogger.Info
	case l >= logrus.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

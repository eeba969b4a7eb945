package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver      string        // postgres / sqlite
	SQLitePath    string        // DB_DRIVER=sqlite のときのファイル
	DBSlowQuery   time.Duration // スロークエリの閾値
	CookieSecure  bool          // tokenクッキーのSecure属性
	SessionTTL    time.Duration // セッションの有効期限（24h）
	SweepSchedule string        // 期限切れセッション掃除のcron式

	BcryptCost int

	LogLevel  string // debug/info/warn/error
	LogFormat string // json/text

	LoginRatePerSec int // IPごとのログイン試行レート
	LoginBurst      int
}

// Loadは環境変数（.envがあれば読み込む）
func Load(envFiles ...string) (Config, error) {
	//.envが無いのはOK
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	} else {
		_ = godotenv.Load()
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:      getenv("DB_DRIVER", "postgres"),
		SQLitePath:    getenv("SQLITE_PATH", "foodtruck.db"),
		SweepSchedule: getenv("SESSION_SWEEP_SPEC", "@every 1h"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", ""),
	}

	var err error
	if cfg.SessionTTL, err = durationOr("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intOr("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.LoginRatePerSec, err = intOr("LOGIN_RATE_PER_SEC", 5); err != nil {
		return Config{}, err
	}
	if cfg.LoginBurst, err = intOr("LOGIN_BURST", 10); err != nil {
		return Config{}, err
	}
	slowMS, err := intOr("DB_LOG_SLOW_MS", 200)
	if err != nil {
		return Config{}, err
	}
	cfg.DBSlowQuery = time.Duration(slowMS) * time.Millisecond
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.GoEnv == "prod")

	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDev() {
			cfg.LogFormat = "text"
		}
	}

	//値チェック
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.LoginRatePerSec <= 0 || cfg.LoginBurst <= 0 {
		return Config{}, fmt.Errorf("LOGIN_RATE_PER_SEC and LOGIN_BURST must be positive")
	}

	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev" || c.GoEnv == "test"
}

// ":8080"の形にする
func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

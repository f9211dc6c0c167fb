package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string
	MaxOpenConns     int
	MaxIdleConns     int
	SQLEcho          bool // SQLをログに出す

	JWTSecret string // JWT署名シークレット

	// オペレーター（ログインできるのはこの1アカウント）
	OperatorEmail        string
	OperatorPasswordHash string // bcrypt

	RedisAddr string // 空ならログインのレート制限なし

	GoEnv        string // dev/prod
	LogLevel     string // debug/info/warn/error
	ItemsPerPage int
	CookieSecure bool
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := atoiDefault("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := atoiDefault("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, err
	}
	perPage, err := atoiDefault("ITEMS_PER_PAGE", 20)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "inventory_db"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		MaxOpenConns:     maxOpen,
		MaxIdleConns:     maxIdle,
		SQLEcho:          envBool("SQL_ECHO", false),

		JWTSecret: os.Getenv("JWT_SECRET"),

		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		GoEnv:        getenv("GO_ENV", "dev"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		ItemsPerPage: perPage,
		CookieSecure: envBool("COOKIE_SECURE", false),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OperatorEmail == "" {
		return Config{}, fmt.Errorf("OPERATOR_EMAIL is required")
	}
	if cfg.OperatorPasswordHash == "" {
		return Config{}, fmt.Errorf("OPERATOR_PASSWORD_HASH is required")
	}
	if cfg.GoEnv != "dev" && cfg.GoEnv != "prod" {
		return Config{}, fmt.Errorf("GO_ENV must be dev or prod")
	}
	if cfg.ItemsPerPage < 1 || cfg.ItemsPerPage > 100 {
		return Config{}, fmt.Errorf("ITEMS_PER_PAGE must be between 1 and 100")
	}

	return cfg, nil
}

// LoadDatabaseはDB接続に必要な項目だけを読む（CLI用）
func LoadDatabase() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	return Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "inventory_db"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		MaxOpenConns:     2,
		MaxIdleConns:     1,
		SQLEcho:          envBool("SQL_ECHO", false),
		GoEnv:            getenv("GO_ENV", "dev"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}, nil
}

// DSNはgorm/pgxに渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
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

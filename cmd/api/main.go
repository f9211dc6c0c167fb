package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/infra/db"
	infraRepo "inventory/internal/infra/repository"
	"inventory/internal/logger"
	"inventory/internal/middleware"
	"inventory/internal/server"
	"inventory/internal/usecase"
	auth "inventory/internal/usecase/auth_usecase"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accessTTL        = 8 * time.Hour
	loginLimit       = 10
	loginLimitPeriod = time.Minute
)

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// ログを書き出してから終了コードを返す（os.Exitはdeferを走らせないため）
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server exited", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//集計用（同じコネクションプール）
	sqlxDB := sqlx.NewDb(sqlDB, "pgx")

	//Repository（GORM/sqlx実装）生成
	repos := server.Repos{
		Categories:       infraRepo.NewCategoryGormRepository(gormDB),
		Suppliers:        infraRepo.NewSupplierGormRepository(gormDB),
		Locations:        infraRepo.NewLocationGormRepository(gormDB),
		Items:            infraRepo.NewItemGormRepository(gormDB),
		TransactionTypes: infraRepo.NewTransactionTypeGormRepository(gormDB),
		Transactions:     infraRepo.NewTransactionGormRepository(gormDB),
		Reports:          infraRepo.NewReportSqlxRepository(sqlxDB),
		TxManager:        infraRepo.NewTxManagerGorm(gormDB),
	}

	//ログイン（bcrypt + JWT）
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, accessTTL, auth.UUIDGenerator{})
	loginUC := auth.NewLoginUsecase(
		cfg.OperatorEmail,
		cfg.OperatorPasswordHash,
		auth.NewBcryptPasswordVerifier(),
		issuer,
		usecase.SystemClock{},
	)

	handlers := server.NewHandlers(repos, loginUC, usecase.SystemClock{}, server.HandlerConfig{
		ItemsPerPage: cfg.ItemsPerPage,
		CookieSecure: cfg.CookieSecure,
	}, log)

	opt := server.Options{
		Log:          log,
		Parser:       issuer,
		CookieSecure: cfg.CookieSecure,
		LoginLimit: middleware.RateLimitConfig{
			Prefix: "inv:login:",
			Limit:  loginLimit,
			Period: loginLimitPeriod,
		},
		Ping: sqlDB.PingContext,
	}

	//REDIS_ADDRがあるときだけレート制限
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, login rate limit will pass through", zap.Error(err))
		}
		opt.Counter = rdb
	}

	e, err := server.New(handlers, opt)
	if err != nil {
		return err
	}
	return server.Start(ctx, e, ":"+cfg.Port, log)
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redis.Client の必要な部分だけ
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type RateLimitConfig struct {
	Prefix string
	Limit  int64
	Period time.Duration
}

// RateLimit はIPごとに Period あたり Limit 回まで通す（固定ウィンドウ）。
// counterがnil、またはRedisが落ちていれば素通しにする。
func RateLimit(counter Counter, cfg RateLimitConfig, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if counter == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cfg.Prefix + c.RealIP()

			//keyが無ければ1で作られる
			count, err := counter.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("rate limit unavailable", zap.Error(err))
				return next(c)
			}

			//期限が無いときだけ付く。初回に失敗しても次の呼び出しで付け直る
			if err := counter.ExpireNX(ctx, key, cfg.Period).Err(); err != nil {
				log.Warn("rate limit expire failed", zap.String("key", key), zap.Error(err))
			}

			if count > cfg.Limit {
				c.Response().Header().Set("Retry-After", retryAfter(cfg.Period))
				return c.JSON(http.StatusTooManyRequests, errorJSON("Too many requests"))
			}
			return next(c)
		}
	}
}

func retryAfter(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}

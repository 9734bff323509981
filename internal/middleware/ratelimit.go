package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"zerowaste/internal/config"
)

// ログイン・登録エンドポイント用のレート制限（IP単位の固定ウィンドウ）。
// ブルートフォース・credential stuffing対策としてLogin/Register/Admin-Loginの前に置く。
// redisが無い環境では素通しにする（機能は縮退、可用性を優先）。
func RateLimit(cfg config.Config, rdb *redis.Client) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	capacity := cfg.RateLimitCapacity
	if capacity < 1 {
		capacity = 1
	}
	window := cfg.RateLimitRefill * time.Duration(capacity)
	if window <= 0 {
		window = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("rl:%s:%s", c.Path(), c.RealIP())
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				//redis障害時は制限より可用性
				return next(c)
			}

			//最初のヒットでウィンドウを張る
			if count == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}

			if count > int64(capacity) {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			return next(c)
		}
	}
}

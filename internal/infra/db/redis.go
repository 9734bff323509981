package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"zerowaste/internal/config"
)

// NewRedisClient はredisクライアントを返す。
// REDIS_ADDR未設定・接続失敗時はnilを返し、呼び出し側は
// blacklist高速参照とレート制限をDBフォールバック/無効化で縮退させる。
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	//短いタイムアウトで疎通確認
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}

	return client
}

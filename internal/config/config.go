package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先で使うDSN
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable/require

	RedisAddr     string // 失効リスト高速参照とレート制限に使う（空なら無効）
	RedisPassword string
	RedisDB       int

	JWTSecret   string        // JWT署名シークレット
	JWTIssuer   string        // issクレーム
	JWTAudience string        // audクレーム
	AccessTTL   time.Duration // アクセストークン有効期限（15m）
	RefreshTTL  time.Duration // リフレッシュトークン有効期限（7d）

	Argon2Memory      uint32 // KiB単位（64MB = 65536）
	Argon2Iterations  uint32
	Argon2Parallelism uint8

	AdminEmail    string // 起動時に管理者をseedする（空ならskip）
	AdminPassword string

	RateLimitCapacity int           // login系エンドポイントのバケット容量
	RateLimitRefill   time.Duration // 1トークン回復までの間隔
	PurgeInterval     time.Duration // 失効リスト・期限切れセッションの掃除間隔

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	accessTTL, err := envDur("JWT_EXPIRES_IN", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := envDur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	argonMemory, err := envInt("ARGON2_MEMORY_KIB", 64*1024)
	if err != nil {
		return Config{}, err
	}
	argonIterations, err := envInt("ARGON2_ITERATIONS", 3)
	if err != nil {
		return Config{}, err
	}
	argonParallelism, err := envInt("ARGON2_PARALLELISM", 1)
	if err != nil {
		return Config{}, err
	}
	rateCapacity, err := envInt("RATE_LIMIT_CAPACITY", 10)
	if err != nil {
		return Config{}, err
	}
	rateRefill, err := envDur("RATE_LIMIT_REFILL_EVERY", 6*time.Second)
	if err != nil {
		return Config{}, err
	}
	purgeInterval, err := envDur("PURGE_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  envStr("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   envStr("JWT_ISSUER", "zero-waste-api"),
		JWTAudience: envStr("JWT_AUDIENCE", "zero-waste-clients"),
		AccessTTL:   accessTTL,
		RefreshTTL:  refreshTTL,

		Argon2Memory:      uint32(argonMemory),
		Argon2Iterations:  uint32(argonIterations),
		Argon2Parallelism: uint8(argonParallelism),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RateLimitCapacity: rateCapacity,
		RateLimitRefill:   rateRefill,
		PurgeInterval:     purgeInterval,

		GoEnv: envStr("GO_ENV", "dev"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	// DATABASE_URLが無ければ個別のPOSTGRES_*が必須
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort
	}

	// memory-hardの下限（64MB・3回）を割らせない
	if cfg.Argon2Memory < 64*1024 {
		cfg.Argon2Memory = 64 * 1024
	}
	if cfg.Argon2Iterations < 3 {
		cfg.Argon2Iterations = 3
	}
	if cfg.Argon2Parallelism < 1 {
		cfg.Argon2Parallelism = 1
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func envStr(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// 未設定ならdefault、設定されていて数値でないならエラー
func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return n, nil
}

// 未設定ならdefault、設定されていてdurationでないならエラー（"15m"、"168h"形式）
func envDur(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 15m or 168h: %w", key, err)
	}
	return d, nil
}

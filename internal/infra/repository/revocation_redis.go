package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

// blacklistのredis実装（高速参照側）。
// jtiごとに1キーを置き、TTLをトークンの自然期限に合わせる。
// 期限が来たらキーごと消えるので、purgeはredis側では不要。
type revocationRedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRevocationRedisRepository(client *redis.Client) domainrepo.RevocationRepository {
	return &revocationRedisRepository{client: client, prefix: "bl:"}
}

// SETNX相当。既存キーはそのまま（idempotent）。
func (r *revocationRedisRepository) Add(ctx context.Context, entry *model.RevocationEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		// 既に自然期限切れ。登録する意味がない
		return nil
	}

	reason := ""
	if entry.Reason != nil {
		reason = *entry.Reason
	}

	return r.client.SetNX(ctx, r.prefix+entry.JTI, reason, ttl).Err()
}

func (r *revocationRedisRepository) IsRevoked(ctx context.Context, jti string, _ time.Time) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TTLで自動的に消えるため削除対象はない。
func (r *revocationRedisRepository) PurgeExpired(ctx context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

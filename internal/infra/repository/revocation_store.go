package repository

import (
	"context"
	"time"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

// write-through構成のblacklist。
// 書き込みはDB（永続）→redis（高速参照）の順、読み取りはredis優先。
// 追加しか起きないストアなので順序の弱さは許容できる（last-write-winsで十分）。
type revocationStore struct {
	durable domainrepo.RevocationRepository // gorm実装
	fast    domainrepo.RevocationRepository // redis実装（nil可）
}

// fastがnilならdurable単体で動く。
func NewRevocationStore(durable, fast domainrepo.RevocationRepository) domainrepo.RevocationRepository {
	return &revocationStore{durable: durable, fast: fast}
}

func (s *revocationStore) Add(ctx context.Context, entry *model.RevocationEntry) error {
	//永続側が正。ここで失敗したら失効は成立していない
	if err := s.durable.Add(ctx, entry); err != nil {
		return err
	}

	//redisはbest-effort。落ちていてもIsRevokedがDBへフォールバックする
	if s.fast != nil {
		_ = s.fast.Add(ctx, entry)
	}
	return nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	if s.fast != nil {
		revoked, err := s.fast.IsRevoked(ctx, jti, now)
		if err == nil && revoked {
			return true, nil
		}
		// missでもDBで確定させる。redisへの書き込みはbest-effortなので
		// miss＝未失効とは言えない（再起動・FLUSHで消える）
	}

	return s.durable.IsRevoked(ctx, jti, now)
}

func (s *revocationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	//redis側はTTLで消えるのでDBだけ掃除する
	return s.durable.PurgeExpired(ctx, now)
}

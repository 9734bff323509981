package repository

import (
	"context"
	"errors"
	"time"

	"zerowaste/internal/domain/model"
)

var ErrRefreshSessionNotFound = errors.New("refresh session not found")

// リフレッシュセッション（whitelist）の保存・照会・失効。
// activeの判定はクエリ時に行う：revoked_at IS NULL AND expires_at > now。
// 期限切れを書き込むことはない。
type RefreshSessionRepository interface {
	Create(ctx context.Context, session *model.RefreshSession) error
	//jtiで1件検索。見つからなければnil
	FindByJTI(ctx context.Context, jti string) (*model.RefreshSession, error)
	//revoked_at+reasonをセットして失効させる（物理削除しない）
	RevokeByJTI(ctx context.Context, jti string, reason string, now time.Time) error
	//ユーザーにactiveなセッションが1件でもあるか（/auth/refreshの前提条件）
	HasActiveForUser(ctx context.Context, userID int64, now time.Time) (bool, error)
	//ユーザーのactiveセッションを全失効。影響件数を返す（logout-everywhere用）
	RevokeActiveForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error)
	//明らかに期限切れの行を削除して件数を返す（容量対策）
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

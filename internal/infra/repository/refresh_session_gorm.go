package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

type refreshSessionGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewRefreshSessionGormRepository(db *gorm.DB) domainrepo.RefreshSessionRepository {
	return &refreshSessionGormRepository{db: db}
}

// リフレッシュセッションを保存。
func (r *refreshSessionGormRepository) Create(ctx context.Context, session *model.RefreshSession) error {
	//タイムアウトやキャンセルをDB処理に伝える
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return err
	}
	return nil
}

// jtiで1件検索します。
func (r *refreshSessionGormRepository) FindByJTI(ctx context.Context, jti string) (*model.RefreshSession, error) {
	var session model.RefreshSession

	err := r.db.WithContext(ctx).
		Where("jti = ?", jti).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// revoked_at+reasonをセットして失効。物理削除はしない。
func (r *refreshSessionGormRepository) RevokeByJTI(ctx context.Context, jti string, reason string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshSession{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Updates(map[string]interface{}{
			"revoked_at": now,
			"reason":     reason,
		})

	if result.Error != nil {
		return result.Error
	}

	// 更新件数0なら「すでに失効済み/存在しない」
	if result.RowsAffected == 0 {
		return domainrepo.ErrRefreshSessionNotFound
	}

	return nil
}

// ユーザーにactiveなセッションが1件でもあるか。
func (r *refreshSessionGormRepository) HasActiveForUser(ctx context.Context, userID int64, now time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.RefreshSession{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ユーザーのactiveセッションを全失効して件数を返します。
func (r *refreshSessionGormRepository) RevokeActiveForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshSession{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Updates(map[string]interface{}{
			"revoked_at": now,
			"reason":     reason,
		})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// 期限切れの行を削除して件数を返します。
func (r *refreshSessionGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.RefreshSession{})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

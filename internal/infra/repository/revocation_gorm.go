package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

type revocationGormRepository struct {
	db *gorm.DB
}

// blacklistのGORM実装（永続側）。
func NewRevocationGormRepository(db *gorm.DB) domainrepo.RevocationRepository {
	return &revocationGormRepository{db: db}
}

// insert-or-ignore。同じjtiの再登録はno-opにする。
// logoutの二重送信・リトライが同時に来てもエラーにしない。
func (r *revocationGormRepository) Add(ctx context.Context, entry *model.RevocationEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jti"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

// 未期限切れのエントリが存在する場合のみtrue。
// exp経過済みならトークン自体が弾かれるのでfalseでよい。
func (r *revocationGormRepository) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.RevocationEntry{}).
		Where("jti = ? AND expires_at > ?", jti, now).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// exp経過済みの行を物理削除して件数を返します。
func (r *revocationGormRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.RevocationEntry{})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

package repository

import (
	"context"

	"zerowaste/internal/domain/model"
)

// プロフィール（アカウント1:1拡張）の保存・取得。
type ProfileRepository interface {
	//owner_type+owner_idで1件検索。見つからなければnil
	FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerID int64) (*model.Profile, error)
	//なければ作成、あれば更新
	Upsert(ctx context.Context, profile *model.Profile) error
}

package repository

import (
	"context"

	"zerowaste/internal/domain/model"
)

// 管理者アカウントの保存・取得を約束。
// 自己登録はないのでCreateはseed用。
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, adminID int64) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, admin *model.Admin) error
}

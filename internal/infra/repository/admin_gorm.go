package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

type adminGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewAdminGormRepository(db *gorm.DB) domainrepo.AdminRepository {
	return &adminGormRepository{db: db}
}

// 管理者を新規作成（seed用）。email重複はErrDuplicateEmail。
func (r *adminGormRepository) Create(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainrepo.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *adminGormRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

func (r *adminGormRepository) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	var a model.Admin

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &a, nil
}

func (r *adminGormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("email = ?", email).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *adminGormRepository) Update(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Save(admin).Error; err != nil {
		return err
	}
	return nil
}

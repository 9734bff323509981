package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zerowaste/internal/domain/model"
	domainrepo "zerowaste/internal/repository"
)

type profileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) domainrepo.ProfileRepository {
	return &profileGormRepository{db: db}
}

// owner_type+owner_idで1件検索。
func (r *profileGormRepository) FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerID int64) (*model.Profile, error) {
	var p model.Profile

	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		First(&p).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

// なければinsert、あればowner複合キーで上書き。
func (r *profileGormRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"phone", "address", "city", "postal_code", "country", "updated_at",
			}),
		}).
		Create(profile).Error
}

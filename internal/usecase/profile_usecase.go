package usecase

import (
	"context"
	"time"

	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
)

// プロフィールの公開ビュー。
type ProfileDTO struct {
	OwnerType  model.OwnerType `json:"ownerType"`
	OwnerID    int64           `json:"ownerId"`
	Phone      *string         `json:"phone"`
	Address    *string         `json:"address"`
	City       *string         `json:"city"`
	PostalCode *string         `json:"postalCode"`
	Country    *string         `json:"country"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type UpdateProfileRequest struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

type ProfileUsecase struct {
	profiles repository.ProfileRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles}
}

// Getは認証済みアカウント自身のプロフィールを返す。未作成なら404。
func (u *ProfileUsecase) Get(ctx context.Context, tc TokenContext) (*ProfileDTO, error) {
	p, err := u.profiles.FindByOwner(ctx, tc.OwnerType, tc.AccountID)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}

	return toProfileDTO(p), nil
}

// Updateはプロフィールをupsertする。所有者はトークンから決まり、
// リクエストで他人のプロフィールを指定することはできない。
func (u *ProfileUsecase) Update(ctx context.Context, tc TokenContext, req UpdateProfileRequest) (*ProfileDTO, error) {
	p := &model.Profile{
		OwnerType:  tc.OwnerType,
		OwnerID:    tc.AccountID,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	if err := u.profiles.Upsert(ctx, p); err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	// upsert後の値（created_at等）を読み直す
	saved, err := u.profiles.FindByOwner(ctx, tc.OwnerType, tc.AccountID)
	if err != nil || saved == nil {
		return toProfileDTO(p), nil
	}

	return toProfileDTO(saved), nil
}

func toProfileDTO(p *model.Profile) *ProfileDTO {
	return &ProfileDTO{
		OwnerType:  p.OwnerType,
		OwnerID:    p.OwnerID,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		UpdatedAt:  p.UpdatedAt,
	}
}

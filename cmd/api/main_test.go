package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"zerowaste/internal/config"
	"zerowaste/internal/crypto"
	"zerowaste/internal/domain/model"
)

// seed検証用のインメモリAdminRepository
type stubAdminRepo struct {
	existing map[string]bool
	created  []*model.Admin
}

func (s *stubAdminRepo) Create(ctx context.Context, admin *model.Admin) error {
	s.created = append(s.created, admin)
	return nil
}

func (s *stubAdminRepo) FindByID(ctx context.Context, adminID int64) (*model.Admin, error) {
	return nil, nil
}

func (s *stubAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return nil, nil
}

func (s *stubAdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existing[email], nil
}

func (s *stubAdminRepo) Update(ctx context.Context, admin *model.Admin) error {
	return nil
}

func seedHasher() *crypto.PasswordHasher {
	return crypto.NewPasswordHasher(64*1024, 3, 1)
}

// 大文字・空白混じりのADMIN_EMAILでもログイン時の検索と同じ形で保存される
func TestSeedAdmin_NormalizesEmail(t *testing.T) {
	repo := &stubAdminRepo{existing: map[string]bool{}}
	cfg := config.Config{
		AdminEmail:    "  Admin@Shop.COM ",
		AdminPassword: "SeedPass123",
	}

	err := seedAdmin(context.Background(), cfg, repo, seedHasher())

	assert.NoError(t, err)
	if assert.Len(t, repo.created, 1) {
		admin := repo.created[0]
		assert.Equal(t, "admin@shop.com", admin.Email)
		assert.Equal(t, model.StatusActive, admin.Status)
		assert.NotEmpty(t, admin.UUID)
		assert.NotEqual(t, "SeedPass123", admin.PasswordHash)
	}
}

// 既存（正規化後の形で登録済み）の場合は何もしない
func TestSeedAdmin_SkipsExisting(t *testing.T) {
	repo := &stubAdminRepo{existing: map[string]bool{"admin@shop.com": true}}
	cfg := config.Config{
		AdminEmail:    "Admin@Shop.com",
		AdminPassword: "SeedPass123",
	}

	err := seedAdmin(context.Background(), cfg, repo, seedHasher())

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

// ADMIN_EMAIL未設定ならskip
func TestSeedAdmin_SkipsWithoutEnv(t *testing.T) {
	repo := &stubAdminRepo{existing: map[string]bool{}}

	err := seedAdmin(context.Background(), config.Config{}, repo, seedHasher())

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

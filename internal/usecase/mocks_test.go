package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// =====================
// Mock: AdminRepository
// =====================

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, adminID int64) (*model.Admin, error) {
	args := m.Called(ctx, adminID)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

// =====================
// Mock: RefreshSessionRepository
// =====================

type MockRefreshSessionRepository struct {
	mock.Mock
}

func (m *MockRefreshSessionRepository) Create(ctx context.Context, session *model.RefreshSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRefreshSessionRepository) FindByJTI(ctx context.Context, jti string) (*model.RefreshSession, error) {
	args := m.Called(ctx, jti)
	s, _ := args.Get(0).(*model.RefreshSession)
	return s, args.Error(1)
}

func (m *MockRefreshSessionRepository) RevokeByJTI(ctx context.Context, jti string, reason string, now time.Time) error {
	args := m.Called(ctx, jti, reason, now)
	return args.Error(0)
}

func (m *MockRefreshSessionRepository) HasActiveForUser(ctx context.Context, userID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshSessionRepository) RevokeActiveForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, reason, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Mock: RevocationRepository
// =====================

type MockRevocationRepository struct {
	mock.Mock
}

func (m *MockRevocationRepository) Add(ctx context.Context, entry *model.RevocationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRevocationRepository) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	args := m.Called(ctx, jti, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Mock: AuditLogRepository
// =====================

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Mock: ProfileRepository
// =====================

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerID int64) (*model.Profile, error) {
	args := m.Called(ctx, ownerType, ownerID)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// =====================
// Mock: AuthValidator
// =====================

type MockAuthValidator struct {
	mock.Mock
}

func (m *MockAuthValidator) ValidateRegister(ctx context.Context, email string, name string, password string) error {
	args := m.Called(ctx, email, name, password)
	return args.Error(0)
}

func (m *MockAuthValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *MockAuthValidator) ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error {
	args := m.Called(ctx, currentPassword, newPassword)
	return args.Error(0)
}

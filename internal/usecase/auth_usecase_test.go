package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"zerowaste/internal/crypto"
	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/token"
)

// テスト共通の部品。hasher/issuerは本物を使い、ストレージだけmockする。
type authFixture struct {
	users       *MockUserRepository
	sessions    *MockRefreshSessionRepository
	revocations *MockRevocationRepository
	audit       *MockAuditLogRepository
	validator   *MockAuthValidator
	hasher      *crypto.PasswordHasher
	issuer      *token.Issuer
	uc          *AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:       new(MockUserRepository),
		sessions:    new(MockRefreshSessionRepository),
		revocations: new(MockRevocationRepository),
		audit:       new(MockAuditLogRepository),
		validator:   new(MockAuthValidator),
		hasher:      crypto.NewPasswordHasher(64*1024, 3, 1),
		issuer: token.NewIssuer(token.Options{
			Secret:     []byte("test-secret"),
			Issuer:     "zero-waste-api",
			Audience:   "zero-waste-clients",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		}),
	}
	f.uc = NewAuthUsecase(f.users, f.sessions, f.revocations, f.audit, f.hasher, f.issuer, f.validator)
	return f
}

func mustHash(t *testing.T, h *crypto.PasswordHasher, plain string) string {
	t.Helper()
	encoded, err := h.Hash(plain)
	assert.NoError(t, err)
	return encoded
}

func activeUser(id int64, email string, passwordHash string) *model.User {
	return &model.User{
		ID:           id,
		UUID:         "11111111-1111-4111-8111-111111111111",
		Email:        email,
		Name:         "Test User",
		PasswordHash: passwordHash,
		Status:       model.StatusActive,
	}
}

// =====================
// Register
// =====================

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "user@test.com"
	pass := "Secret123"

	f.validator.On("ValidateRegister", mock.Anything, email, "Test User", pass).Return(nil)
	f.users.On("ExistsByEmail", mock.Anything, email).Return(false, nil)

	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 保存されるユーザーが最低限正しい形かを見る
		return u.Email == email &&
			u.UUID != "" &&
			u.Status == model.StatusActive &&
			u.PasswordHash != "" && u.PasswordHash != pass &&
			u.AvatarURL != nil && *u.AvatarURL != ""
	})).Return(nil)

	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	resp, err := f.uc.Register(ctx, RegisterRequest{Email: email, Name: "Test User", Password: pass})
	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, email, resp.User.Email)

	f.users.AssertExpectations(t)
	f.validator.AssertExpectations(t)
}

func TestAuthUsecase_Register_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.validator.On("ValidateRegister", mock.Anything, "  User@Test.COM ", "Test User", "Secret123").Return(nil)

	// 小文字化・trim後のemailで照会・保存される
	f.users.On("ExistsByEmail", mock.Anything, "user@test.com").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "user@test.com"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	resp, err := f.uc.Register(ctx, RegisterRequest{Email: "  User@Test.COM ", Name: "Test User", Password: "Secret123"})
	assert.NoError(t, err)
	assert.Equal(t, "user@test.com", resp.User.Email)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "taken@test.com"

	f.validator.On("ValidateRegister", mock.Anything, email, "Test User", "Secret123").Return(nil)
	f.users.On("ExistsByEmail", mock.Anything, email).Return(true, nil)

	resp, err := f.uc.Register(ctx, RegisterRequest{Email: email, Name: "Test User", Password: "Secret123"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrEmailAlreadyInUse)

	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateEmailRace(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "taken@test.com"

	// 事前チェックは通るが、INSERTでunique違反（同時登録の負け側）
	f.validator.On("ValidateRegister", mock.Anything, email, "Test User", "Secret123").Return(nil)
	f.users.On("ExistsByEmail", mock.Anything, email).Return(false, nil)
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail)

	resp, err := f.uc.Register(ctx, RegisterRequest{Email: email, Name: "Test User", Password: "Secret123"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrEmailAlreadyInUse)
}

func TestAuthUsecase_Register_WeakPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "user@test.com"
	pass := "alllowercase1" // 大文字なし

	f.validator.On("ValidateRegister", mock.Anything, email, "Test User", pass).Return(nil)
	f.users.On("ExistsByEmail", mock.Anything, email).Return(false, nil)

	resp, err := f.uc.Register(ctx, RegisterRequest{Email: email, Name: "Test User", Password: pass})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrWeakPassword)

	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login
// =====================

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "user@test.com"
	pass := "Secret123"
	user := activeUser(1, email, mustHash(t, f.hasher, pass))

	f.validator.On("ValidateLogin", mock.Anything, email, pass).Return(nil)
	f.users.On("FindByEmail", mock.Anything, email).Return(user, nil)

	// refreshのjtiがwhitelistへ記録される
	f.sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *model.RefreshSession) bool {
		return s.UserID == 1 && s.JTI != "" && s.ExpiresAt.After(time.Now())
	})).Return(nil)

	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	resp, err := f.uc.Login(ctx, LoginRequest{Email: email, Password: pass})
	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.ExpiresIn, 0)
	assert.Equal(t, email, resp.User.Email)

	// access/refreshは別物で、typが分かれている
	access, err := f.issuer.Verify(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, token.TypeAccess, access.TokenType)

	refresh, err := f.issuer.Verify(resp.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, token.TypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)

	f.sessions.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "user@test.com"
	user := activeUser(1, email, mustHash(t, f.hasher, "Secret123"))

	f.validator.On("ValidateLogin", mock.Anything, email, "Wrong1234").Return(nil)
	f.users.On("FindByEmail", mock.Anything, email).Return(user, nil)

	resp, err := f.uc.Login(ctx, LoginRequest{Email: email, Password: "Wrong1234"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrInvalidPassword)

	// whitelistに新規セッションは作られない
	f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.validator.On("ValidateLogin", mock.Anything, "nobody@test.com", "Secret123").Return(nil)
	f.users.On("FindByEmail", mock.Anything, "nobody@test.com").Return(nil, nil)

	resp, err := f.uc.Login(ctx, LoginRequest{Email: "nobody@test.com", Password: "Secret123"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestAuthUsecase_Login_DisabledUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	email := "disabled@test.com"
	user := activeUser(1, email, mustHash(t, f.hasher, "Secret123"))
	user.Status = model.StatusDisabled

	f.validator.On("ValidateLogin", mock.Anything, email, "Secret123").Return(nil)
	f.users.On("FindByEmail", mock.Anything, email).Return(user, nil)

	// 停止ユーザーも不在と同じ失敗にする（存在を教えない）
	resp, err := f.uc.Login(ctx, LoginRequest{Email: email, Password: "Secret123"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

// =====================
// Logout
// =====================

func TestAuthUsecase_Logout_RevokesTokenAndSessions(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	tc := TokenContext{
		AccountID: 1,
		Email:     "user@test.com",
		JTI:       "jti-access-1",
		OwnerType: model.OwnerTypeUser,
		ExpiresAt: time.Now().Add(10 * time.Minute),
		RawToken:  "raw.jwt.token",
	}

	f.revocations.On("Add", mock.Anything, mock.MatchedBy(func(e *model.RevocationEntry) bool {
		return e.JTI == "jti-access-1" &&
			e.OwnerID == 1 &&
			e.Reason != nil && *e.Reason == model.RevokeReasonLogout
	})).Return(nil)

	f.sessions.On("RevokeActiveForUser", mock.Anything, int64(1), model.RevokeReasonLogout, mock.AnythingOfType("time.Time")).
		Return(int64(2), nil)

	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	err := f.uc.Logout(ctx, tc, "")
	assert.NoError(t, err)

	f.revocations.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
}

func TestAuthUsecase_Logout_NamedSessionOnly(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	refresh, err := f.issuer.SignRefreshToken(1, "user@test.com", model.OwnerTypeUser)
	assert.NoError(t, err)

	tc := TokenContext{
		AccountID: 1,
		Email:     "user@test.com",
		JTI:       "jti-access-1",
		OwnerType: model.OwnerTypeUser,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	f.revocations.On("Add", mock.Anything, mock.AnythingOfType("*model.RevocationEntry")).Return(nil)

	// 名指しされたセッションだけが失効する
	f.sessions.On("FindByJTI", mock.Anything, refresh.JTI).Return(&model.RefreshSession{
		UserID:    1,
		JTI:       refresh.JTI,
		ExpiresAt: refresh.ExpiresAt,
	}, nil)
	f.sessions.On("RevokeByJTI", mock.Anything, refresh.JTI, model.RevokeReasonLogout, mock.AnythingOfType("time.Time")).Return(nil)

	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	assert.NoError(t, f.uc.Logout(ctx, tc, refresh.Token))

	f.sessions.AssertExpectations(t)
	f.sessions.AssertNotCalled(t, "RevokeActiveForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Logout_RejectsForeignRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	// 他人（sub=99）のrefresh tokenを名指ししても失効できない
	foreign, err := f.issuer.SignRefreshToken(99, "other@test.com", model.OwnerTypeUser)
	assert.NoError(t, err)

	tc := TokenContext{
		AccountID: 1,
		Email:     "user@test.com",
		JTI:       "jti-access-1",
		OwnerType: model.OwnerTypeUser,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	f.revocations.On("Add", mock.Anything, mock.AnythingOfType("*model.RevocationEntry")).Return(nil)

	err = f.uc.Logout(ctx, tc, foreign.Token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	f.sessions.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	tc := TokenContext{
		AccountID: 1,
		JTI:       "jti-access-1",
		OwnerType: model.OwnerTypeUser,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	// Addはinsert-or-ignore、Revokeは0件でも成功する想定
	f.revocations.On("Add", mock.Anything, mock.AnythingOfType("*model.RevocationEntry")).Return(nil)
	f.sessions.On("RevokeActiveForUser", mock.Anything, int64(1), model.RevokeReasonLogout, mock.AnythingOfType("time.Time")).
		Return(int64(0), nil)
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	assert.NoError(t, f.uc.Logout(ctx, tc, ""))
	assert.NoError(t, f.uc.Logout(ctx, tc, ""))
}

// =====================
// Refresh
// =====================

func refreshTokenContext() TokenContext {
	return TokenContext{
		AccountID: 1,
		Email:     "user@test.com",
		JTI:       "jti-access-old",
		OwnerType: model.OwnerTypeUser,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
}

func TestAuthUsecase_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := activeUser(1, "user@test.com", "unused")
	tc := refreshTokenContext()

	f.users.On("FindByEmail", mock.Anything, "user@test.com").Return(user, nil)
	f.sessions.On("HasActiveForUser", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).Return(true, nil)

	// 旧アクセストークンはローテーション理由で失効する
	f.revocations.On("Add", mock.Anything, mock.MatchedBy(func(e *model.RevocationEntry) bool {
		return e.JTI == "jti-access-old" && e.Reason != nil && *e.Reason == model.RevokeReasonRotated
	})).Return(nil)

	resp, err := f.uc.Refresh(ctx, tc)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresIn, 0)

	claims, err := f.issuer.Verify(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, token.TypeAccess, claims.TokenType)
	assert.NotEqual(t, "jti-access-old", claims.ID)

	f.revocations.AssertExpectations(t)
}

// ローテーション失効の失敗は新トークン発行を妨げない
func TestAuthUsecase_Refresh_RotationFailureStillIssues(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := activeUser(1, "user@test.com", "unused")
	tc := refreshTokenContext()

	f.users.On("FindByEmail", mock.Anything, "user@test.com").Return(user, nil)
	f.sessions.On("HasActiveForUser", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).Return(true, nil)
	f.revocations.On("Add", mock.Anything, mock.Anything).Return(errors.New("db down"))

	resp, err := f.uc.Refresh(ctx, tc)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthUsecase_Refresh_NoActiveSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := activeUser(1, "user@test.com", "unused")
	tc := refreshTokenContext()

	f.users.On("FindByEmail", mock.Anything, "user@test.com").Return(user, nil)

	// logout済み（whitelistに残っていない）なら再発行しない
	f.sessions.On("HasActiveForUser", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).Return(false, nil)

	resp, err := f.uc.Refresh(ctx, tc)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrRefreshTokenInactive)

	f.revocations.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Refresh_AccountGone(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	tc := refreshTokenContext()

	// tokenのsubが実在アカウントと一致しないケース
	f.users.On("FindByEmail", mock.Anything, "user@test.com").Return(nil, nil)

	resp, err := f.uc.Refresh(ctx, tc)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestAuthUsecase_Refresh_SubjectMismatch(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	// emailは実在するがIDがtokenのsubと食い違う
	other := activeUser(99, "user@test.com", "unused")
	tc := refreshTokenContext()

	f.users.On("FindByEmail", mock.Anything, "user@test.com").Return(other, nil)

	resp, err := f.uc.Refresh(ctx, tc)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

// =====================
// ChangePassword
// =====================

func TestAuthUsecase_ChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := activeUser(1, "user@test.com", mustHash(t, f.hasher, "OldSecret1"))
	tc := TokenContext{AccountID: 1, OwnerType: model.OwnerTypeUser}

	f.validator.On("ValidateChangePassword", mock.Anything, "OldSecret1", "NewSecret2").Return(nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(user, nil)

	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 新しいhashで保存され、平文は残らない
		return u.ID == 1 && u.PasswordHash != "" && u.PasswordHash != "NewSecret2"
	})).Return(nil)

	// パスワード変更で全セッション失効
	f.sessions.On("RevokeActiveForUser", mock.Anything, int64(1), model.RevokeReasonPasswordChange, mock.AnythingOfType("time.Time")).
		Return(int64(1), nil)

	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	err := f.uc.ChangePassword(ctx, tc, "OldSecret1", "NewSecret2")
	assert.NoError(t, err)

	assert.True(t, f.hasher.Verify(user.PasswordHash, "NewSecret2"))
	f.sessions.AssertExpectations(t)
}

func TestAuthUsecase_ChangePassword_WrongCurrent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user := activeUser(1, "user@test.com", mustHash(t, f.hasher, "OldSecret1"))
	tc := TokenContext{AccountID: 1, OwnerType: model.OwnerTypeUser}

	f.validator.On("ValidateChangePassword", mock.Anything, "Wrong1234", "NewSecret2").Return(nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(user, nil)

	err := f.uc.ChangePassword(ctx, tc, "Wrong1234", "NewSecret2")
	assert.ErrorIs(t, err, apperr.ErrInvalidPassword)

	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "RevokeActiveForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

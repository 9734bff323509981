package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"zerowaste/internal/crypto"
	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/token"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, name string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error
}

// API返却用のユーザー公開ビュー。password_hashは含めない。
type UserDTO struct {
	ID        int64               `json:"id"`
	UUID      string              `json:"uuid"`
	Email     string              `json:"email"`
	Name      string              `json:"name"`
	AvatarURL *string             `json:"avatarUrl"`
	Status    model.AccountStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatarUrl"`
}

type RegisterResponse struct {
	User UserDTO `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// whitelistモデル：両トークンをクライアントへ返し、
// refreshのjtiをサーバー側セッション（RefreshSession）に記録する。
type LoginResponse struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int     `json:"expiresIn"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// TokenContextはguardを通過した認証済みトークンの情報。
// middlewareがcontextへ入れたものをhandlerが詰め替える。
type TokenContext struct {
	AccountID int64
	Email     string
	JTI       string
	OwnerType model.OwnerType
	ExpiresAt time.Time
	RawToken  string
}

type AuthUsecase struct {
	users       repository.UserRepository
	sessions    repository.RefreshSessionRepository
	revocations repository.RevocationRepository
	audit       repository.AuditLogRepository
	hasher      *crypto.PasswordHasher
	issuer      *token.Issuer
	validator   AuthValidator
}

func NewAuthUsecase(
	users repository.UserRepository,
	sessions repository.RefreshSessionRepository,
	revocations repository.RevocationRepository,
	audit repository.AuditLogRepository,
	hasher *crypto.PasswordHasher,
	issuer *token.Issuer,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		users:       users,
		sessions:    sessions,
		revocations: revocations,
		audit:       audit,
		hasher:      hasher,
		issuer:      issuer,
		validator:   validator,
	}
}

// Registerは会員登録。
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Name, req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	//email重複の事前チェック
	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if exists {
		return nil, apperr.ErrEmailAlreadyInUse.WithDetails(map[string]any{"email": email})
	}

	//パスワード強度ポリシー（8文字以上・大小英字・数字）
	if !crypto.CheckStrength(req.Password) {
		return nil, apperr.ErrWeakPassword.WithDetails(map[string]any{
			"minLength":     8,
			"requiresUpper": true,
			"requiresLower": true,
			"requiresDigit": true,
		})
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	name := strings.TrimSpace(req.Name)

	//avatar未指定ならプレースホルダを割り当てる
	avatarURL := strings.TrimSpace(req.AvatarURL)
	if avatarURL == "" {
		avatarURL = fmt.Sprintf("https://i.pravatar.cc/200?u=%s", url.QueryEscape(name))
	}

	user := &model.User{
		UUID:         uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		AvatarURL:    &avatarURL,
		Status:       model.StatusActive,
	}

	//保存。事前チェックをすり抜けた同時登録の負け側もここで409に翻訳される
	if err := u.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, apperr.ErrEmailAlreadyInUse.WithDetails(map[string]any{"email": email})
		}
		return nil, apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeUser, user.ID, model.AuditActionRegister, nil)

	dto := toUserDTO(user)
	return &RegisterResponse{User: dto}, nil
}

// Loginは認証してアクセス＋リフレッシュトークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	//ユーザー取得。不在でも無効化済みでも同じ失敗にする（enumeration対策）
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if user == nil || !user.IsActive() {
		return nil, apperr.ErrUserNotFound
	}

	//パスワード照合（argon2id）
	if !u.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, apperr.ErrInvalidPassword
	}

	//access token発行
	access, err := u.issuer.SignAccessToken(user.ID, user.Email, model.OwnerTypeUser)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	//refresh token発行＋whitelistへ記録
	refresh, err := u.issuer.SignRefreshToken(user.ID, user.Email, model.OwnerTypeUser)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	session := &model.RefreshSession{
		UserID:    user.ID,
		JTI:       refresh.JTI,
		ExpiresAt: refresh.ExpiresAt,
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeUser, user.ID, model.AuditActionLogin, nil)

	return &LoginResponse{
		User:         toUserDTO(user),
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresIn:    int(time.Until(access.ExpiresAt).Seconds()),
	}, nil
}

// Logoutは現在のアクセストークンをblacklistへ入れ、リフレッシュセッションを失効させる。
// refreshTokenが渡されたらそのセッションだけ（他デバイスは残す）、
// 空ならユーザーのactiveなセッションを全失効させる。
// 二重実行してもエラーにならない（Addはinsert-or-ignore、Revokeは0件でも成功）。
func (u *AuthUsecase) Logout(ctx context.Context, tc TokenContext, refreshToken string) error {
	now := time.Now()
	reason := model.RevokeReasonLogout

	entry := &model.RevocationEntry{
		JTI:       tc.JTI,
		OwnerType: model.OwnerTypeUser,
		OwnerID:   tc.AccountID,
		Token:     &tc.RawToken,
		IssuedAt:  now,
		ExpiresAt: tc.ExpiresAt,
		RevokedAt: now,
		Reason:    &reason,
	}
	if err := u.revocations.Add(ctx, entry); err != nil {
		return apperr.ErrInternal.WithCause(err)
	}

	if refreshToken != "" {
		return u.logoutSession(ctx, tc, refreshToken, now)
	}

	//他デバイスのaccess tokenは自然期限まで有効のままだが、
	//refresh経由での再発行はここで全て止まる
	count, err := u.sessions.RevokeActiveForUser(ctx, tc.AccountID, reason, now)
	if err != nil {
		return apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeUser, tc.AccountID, model.AuditActionLogout, map[string]any{"revokedSessions": count})

	return nil
}

// 名指しされたrefreshセッション1件だけを失効させる（セッション単位のlogout）。
func (u *AuthUsecase) logoutSession(ctx context.Context, tc TokenContext, refreshToken string, now time.Time) error {
	claims, err := u.issuer.Verify(refreshToken)
	if err != nil {
		return apperr.ErrInvalidToken
	}
	if claims.TokenType != token.TypeRefresh {
		return apperr.ErrInvalidToken
	}

	//他人のセッションは名指しできない
	subjectID, err := claims.SubjectID()
	if err != nil || subjectID != tc.AccountID {
		return apperr.ErrInvalidToken
	}

	session, err := u.sessions.FindByJTI(ctx, claims.ID)
	if err != nil {
		return apperr.ErrInternal.WithCause(err)
	}
	//未登録・失効済みでも成功扱い（logoutはidempotent）
	if session != nil && session.UserID == tc.AccountID {
		if err := u.sessions.RevokeByJTI(ctx, claims.ID, model.RevokeReasonLogout, now); err != nil && err != repository.ErrRefreshSessionNotFound {
			return apperr.ErrInternal.WithCause(err)
		}
	}

	writeAudit(ctx, u.audit, model.OwnerTypeUser, tc.AccountID, model.AuditActionLogout, map[string]any{"sessionJti": claims.ID})

	return nil
}

// Refreshは検証済みアクセストークンから新しいアクセストークンを発行する。
// 前提条件：ユーザーにactiveなリフレッシュセッションが1件以上あること。
// 発行後、提示されたアクセストークンのjtiはローテーションとして失効させる。
func (u *AuthUsecase) Refresh(ctx context.Context, tc TokenContext) (*RefreshResponse, error) {
	now := time.Now()

	//tokenのsub+emailが実在するactiveなアカウントと一致するか再確認する。
	//（発行後に削除・無効化されたアカウントのtokenを弾く）
	user, err := u.users.FindByEmail(ctx, normalizeEmail(tc.Email))
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if user == nil || !user.IsActive() || user.ID != tc.AccountID {
		return nil, apperr.ErrUserNotFound
	}

	//whitelistにactiveなセッションが必要
	hasActive, err := u.sessions.HasActiveForUser(ctx, user.ID, now)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if !hasActive {
		return nil, apperr.ErrRefreshTokenInactive
	}

	access, err := u.issuer.SignAccessToken(user.ID, user.Email, model.OwnerTypeUser)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	//旧アクセストークンをローテーション失効。
	//同時のlogoutと競合しても、どちらも「失効の追加」なので壊れない
	reason := model.RevokeReasonRotated
	if err := u.revocations.Add(ctx, &model.RevocationEntry{
		JTI:       tc.JTI,
		OwnerType: model.OwnerTypeUser,
		OwnerID:   user.ID,
		IssuedAt:  now,
		ExpiresAt: tc.ExpiresAt,
		RevokedAt: now,
		Reason:    &reason,
	}); err != nil {
		// 発行は成立済み。旧トークンは自然期限まで残るので記録だけする
		log.Printf("refresh: rotate revocation failed for jti=%s: %v", tc.JTI, err)
	}

	return &RefreshResponse{
		AccessToken: access.Token,
		ExpiresIn:   int(time.Until(access.ExpiresAt).Seconds()),
	}, nil
}

// ChangePasswordは現在のパスワードを再確認してから新パスワードへ更新する。
// （盗まれたaccess tokenだけでは乗っ取れないようにする）
func (u *AuthUsecase) ChangePassword(ctx context.Context, tc TokenContext, currentPassword string, newPassword string) error {
	if err := u.validator.ValidateChangePassword(ctx, currentPassword, newPassword); err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, tc.AccountID)
	if err != nil {
		return apperr.ErrInternal.WithCause(err)
	}
	if user == nil || !user.IsActive() {
		return apperr.ErrUserNotFound
	}

	//現在のパスワードを再確認
	if !u.hasher.Verify(user.PasswordHash, currentPassword) {
		return apperr.ErrInvalidPassword
	}

	if !crypto.CheckStrength(newPassword) {
		return apperr.ErrWeakPassword
	}

	newHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return apperr.ErrInternal.WithCause(err)
	}

	user.PasswordHash = newHash
	if err := u.users.Update(ctx, user); err != nil {
		return apperr.ErrInternal.WithCause(err)
	}

	//既存セッションは全失効させる（漏えいしたrefresh経路を断つ）
	now := time.Now()
	count, err := u.sessions.RevokeActiveForUser(ctx, user.ID, model.RevokeReasonPasswordChange, now)
	if err != nil {
		return apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeUser, user.ID, model.AuditActionPasswordChange, map[string]any{"revokedSessions": count})

	return nil
}

// 監査ログはbest-effort。失敗しても本処理は通す。
func writeAudit(ctx context.Context, audit repository.AuditLogRepository, actorType model.OwnerType, actorID int64, action model.AuditAction, detail map[string]any) {
	detailJSON := ""
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			detailJSON = string(b)
		}
	}

	_ = audit.Create(ctx, model.AuditLog{
		ActorType:  actorType,
		ActorID:    actorID,
		Action:     action,
		DetailJSON: detailJSON,
		CreatedAt:  time.Now(),
	})
}

// 検索・保存の前に必ず通す正規化
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		UUID:      u.UUID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

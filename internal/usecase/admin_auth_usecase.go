package usecase

import (
	"context"
	"time"

	"zerowaste/internal/crypto"
	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/token"
)

// API返却用の管理者公開ビュー。
type AdminDTO struct {
	ID        int64               `json:"id"`
	UUID      string              `json:"uuid"`
	Email     string              `json:"email"`
	Name      string              `json:"name"`
	AvatarURL *string             `json:"avatarUrl"`
	Status    model.AccountStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// 管理者ログインはaccess tokenのみ（refreshなし・whitelist不要）。
// 管理者セッションは短命でよい。
type AdminLoginResponse struct {
	Admin       AdminDTO `json:"admin"`
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int      `json:"expiresIn"`
}

type ForceLogoutResponse struct {
	UserID          int64 `json:"userId"`
	RevokedSessions int64 `json:"revokedSessions"`
}

// 監査ログ一覧の絞り込み。空文字・0は条件なし扱い。
type AuditLogQuery struct {
	ActorType string
	ActorID   int64
	Action    string
	Limit     int
	Offset    int
}

type AuditLogDTO struct {
	ID        int64             `json:"id"`
	ActorType model.OwnerType   `json:"actorType"`
	ActorID   int64             `json:"actorId"`
	Action    model.AuditAction `json:"action"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time         `json:"createdAt"`
}

type AdminAuthUsecase struct {
	admins      repository.AdminRepository
	users       repository.UserRepository
	sessions    repository.RefreshSessionRepository
	revocations repository.RevocationRepository
	audit       repository.AuditLogRepository
	hasher      *crypto.PasswordHasher
	issuer      *token.Issuer
	validator   AuthValidator
}

func NewAdminAuthUsecase(
	admins repository.AdminRepository,
	users repository.UserRepository,
	sessions repository.RefreshSessionRepository,
	revocations repository.RevocationRepository,
	audit repository.AuditLogRepository,
	hasher *crypto.PasswordHasher,
	issuer *token.Issuer,
	validator AuthValidator,
) *AdminAuthUsecase {
	return &AdminAuthUsecase{
		admins:      admins,
		users:       users,
		sessions:    sessions,
		revocations: revocations,
		audit:       audit,
		hasher:      hasher,
		issuer:      issuer,
		validator:   validator,
	}
}

// Loginは管理者認証。形はユーザーLoginと同じだがrefreshを発行しない。
func (u *AdminAuthUsecase) Login(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	admin, err := u.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if admin == nil || !admin.IsActive() {
		return nil, apperr.ErrUserNotFound
	}

	if !u.hasher.Verify(admin.PasswordHash, req.Password) {
		return nil, apperr.ErrInvalidPassword
	}

	access, err := u.issuer.SignAccessToken(admin.ID, admin.Email, model.OwnerTypeAdmin)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeAdmin, admin.ID, model.AuditActionLogin, nil)

	return &AdminLoginResponse{
		Admin: AdminDTO{
			ID:        admin.ID,
			UUID:      admin.UUID,
			Email:     admin.Email,
			Name:      admin.Name,
			AvatarURL: admin.AvatarURL,
			Status:    admin.Status,
			CreatedAt: admin.CreatedAt,
			UpdatedAt: admin.UpdatedAt,
		},
		AccessToken: access.Token,
		ExpiresIn:   int(time.Until(access.ExpiresAt).Seconds()),
	}, nil
}

// Logoutは管理者のaccess tokenをblacklistへ入れるだけ。
// 管理者はrefreshセッションを持たないので対称処理は不要。
func (u *AdminAuthUsecase) Logout(ctx context.Context, tc TokenContext) error {
	now := time.Now()
	reason := model.RevokeReasonAdminLogout

	entry := &model.RevocationEntry{
		JTI:       tc.JTI,
		OwnerType: model.OwnerTypeAdmin,
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

	writeAudit(ctx, u.audit, model.OwnerTypeAdmin, tc.AccountID, model.AuditActionLogout, nil)

	return nil
}

// ForceLogoutは指定ユーザーのactiveセッションを全失効させる
// （アカウント侵害疑い・強制退会時の運用操作）。
func (u *AdminAuthUsecase) ForceLogout(ctx context.Context, tc TokenContext, targetUserID int64) (*ForceLogoutResponse, error) {
	if targetUserID <= 0 {
		return nil, apperr.ErrValidation
	}

	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}

	now := time.Now()
	count, err := u.sessions.RevokeActiveForUser(ctx, targetUserID, model.RevokeReasonForceLogout, now)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	writeAudit(ctx, u.audit, model.OwnerTypeAdmin, tc.AccountID, model.AuditActionForceLogout, map[string]any{
		"targetUserId":    targetUserID,
		"revokedSessions": count,
	})

	return &ForceLogoutResponse{
		UserID:          targetUserID,
		RevokedSessions: count,
	}, nil
}

// AuditLogsは認証イベントログを新しい順で返す（運用調査用）。
func (u *AdminAuthUsecase) AuditLogs(ctx context.Context, q AuditLogQuery) ([]AuditLogDTO, error) {
	filter := repository.AuditLogFilter{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if q.ActorType != "" {
		at := model.OwnerType(q.ActorType)
		filter.ActorType = &at
	}
	if q.ActorID > 0 {
		filter.ActorID = &q.ActorID
	}
	if q.Action != "" {
		a := model.AuditAction(q.Action)
		filter.Action = &a
	}

	logs, err := u.audit.List(ctx, filter)
	if err != nil {
		return nil, apperr.ErrInternal.WithCause(err)
	}

	out := make([]AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogDTO{
			ID:        l.ID,
			ActorType: l.ActorType,
			ActorID:   l.ActorID,
			Action:    l.Action,
			Detail:    l.DetailJSON,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

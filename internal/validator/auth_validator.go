package validator

import (
	"context"
	"regexp"
	"strings"

	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/usecase"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, name string, password string) error {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	// 必須チェック
	if email == "" || name == "" || password == "" {
		return apperr.ErrValidation.WithDetails(map[string]any{"fields": "email, name, password are required"})
	}

	// email形式
	if !isEmailLike(email) {
		return apperr.ErrValidation.WithDetails(map[string]any{"email": "invalid format"})
	}

	// パスワード最低文字数（8）
	if len(password) < 8 {
		return apperr.ErrValidation.WithDetails(map[string]any{"password": "must be at least 8 characters"})
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return apperr.ErrValidation.WithDetails(map[string]any{"fields": "email and password are required"})
	}

	// email形式
	if !isEmailLike(email) {
		return apperr.ErrValidation.WithDetails(map[string]any{"email": "invalid format"})
	}

	return nil
}

// パスワード変更の入力を検証
func (v *authValidator) ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error {
	// 必須チェック
	if currentPassword == "" || newPassword == "" {
		return apperr.ErrValidation.WithDetails(map[string]any{"fields": "currentPassword and newPassword are required"})
	}

	if len(newPassword) < 8 {
		return apperr.ErrValidation.WithDetails(map[string]any{"newPassword": "must be at least 8 characters"})
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}

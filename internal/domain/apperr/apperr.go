package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ドメインエラー。安定した機械可読コード＋HTTPステータス相当を持ち、
// 境界（handler）で一度だけtransportへ変換される。
type Error struct {
	Code    string         // EMAIL_ALREADY_IN_USE など（frontend/ログ用に安定）
	Status  int            // 変換先のHTTPステータス
	Message string         // 人間向けメッセージ
	Details map[string]any // 任意のメタデータ
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// 同じCodeならIsで一致させる（sentinelとの比較に使う）
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCauseは元エラーを保持した複製を返す
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// WithDetailsはメタデータを足した複製を返す
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// 閉じたエラー集合。新しい失敗形はここに追加する。
var (
	ErrEmailAlreadyInUse = &Error{Code: "EMAIL_ALREADY_IN_USE", Status: http.StatusConflict, Message: "email is already registered"}
	ErrWeakPassword      = &Error{Code: "WEAK_PASSWORD", Status: http.StatusBadRequest, Message: "password does not meet the minimum security requirements"}
	ErrValidation        = &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: "invalid input"}

	// 認証系は詳細を漏らさず一律401（enumeration対策）
	ErrUserNotFound         = &Error{Code: "USER_NOT_FOUND", Status: http.StatusUnauthorized, Message: "invalid credentials"}
	ErrInvalidPassword      = &Error{Code: "INVALID_PASSWORD", Status: http.StatusUnauthorized, Message: "invalid credentials"}
	ErrInvalidToken         = &Error{Code: "INVALID_TOKEN", Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	ErrRefreshTokenInactive = &Error{Code: "REFRESH_TOKEN_INACTIVE", Status: http.StatusUnauthorized, Message: "no active refresh session"}

	ErrForbidden = &Error{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: "insufficient permissions"}
	ErrNotFound  = &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: "resource not found"}
	ErrInternal  = &Error{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError, Message: "unexpected error"}
)

// FromはエラーをError型に寄せる。未知のエラーはInternal扱い。
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

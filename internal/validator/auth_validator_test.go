package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"zerowaste/internal/domain/apperr"
)

func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateRegister(ctx, "user@test.com", "Test User", "Secret123"))

	// 必須欠け
	assert.ErrorIs(t, v.ValidateRegister(ctx, "", "Test User", "Secret123"), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "user@test.com", "", "Secret123"), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "user@test.com", "Test User", ""), apperr.ErrValidation)

	// email形式
	assert.ErrorIs(t, v.ValidateRegister(ctx, "not-an-email", "Test User", "Secret123"), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "a@b", "Test User", "Secret123"), apperr.ErrValidation)

	// 短すぎるパスワード
	assert.ErrorIs(t, v.ValidateRegister(ctx, "user@test.com", "Test User", "Ab1"), apperr.ErrValidation)
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "user@test.com", "whatever"))

	assert.ErrorIs(t, v.ValidateLogin(ctx, "", "whatever"), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "user@test.com", ""), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "broken@@", "whatever"), apperr.ErrValidation)
}

func TestAuthValidator_ValidateChangePassword(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateChangePassword(ctx, "OldSecret1", "NewSecret2"))

	assert.ErrorIs(t, v.ValidateChangePassword(ctx, "", "NewSecret2"), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateChangePassword(ctx, "OldSecret1", ""), apperr.ErrValidation)
	assert.ErrorIs(t, v.ValidateChangePassword(ctx, "OldSecret1", "short"), apperr.ErrValidation)
}

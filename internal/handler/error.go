package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/middleware"
	"zerowaste/internal/usecase"
)

// 全handlerで共通のエラー封筒。
type ErrorResponse struct {
	StatusCode int            `json:"statusCode"`
	Error      string         `json:"error"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Path       string         `json:"path"`
	Timestamp  string         `json:"timestamp"`
}

// usecaseのエラーをここで一度だけHTTPへ変換する
func writeError(c echo.Context, err error) error {
	ae := apperr.From(err)
	return c.JSON(ae.Status, ErrorResponse{
		StatusCode: ae.Status,
		Error:      ae.Code,
		Message:    ae.Message,
		Details:    ae.Details,
		Path:       c.Request().URL.Path,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func badRequestJSON(c echo.Context, msg string) error {
	return writeError(c, apperr.ErrValidation.WithDetails(map[string]any{"body": msg}))
}

func unauthorizedJSON(c echo.Context) error {
	return writeError(c, apperr.ErrInvalidToken)
}

// middleware.AuthJWT がcontextへ入れた認証情報を詰め替える
func principalFromContext(c echo.Context) (usecase.TokenContext, bool) {
	accountID, ok := c.Get(middleware.CtxAccountIDKey).(int64)
	if !ok || accountID <= 0 {
		return usecase.TokenContext{}, false
	}

	jti, ok := c.Get(middleware.CtxJTIKey).(string)
	if !ok || jti == "" {
		return usecase.TokenContext{}, false
	}

	email, _ := c.Get(middleware.CtxEmailKey).(string)
	ownerType, _ := c.Get(middleware.CtxOwnerTypeKey).(model.OwnerType)
	exp, _ := c.Get(middleware.CtxTokenExpKey).(time.Time)
	raw, _ := c.Get(middleware.CtxRawTokenKey).(string)

	return usecase.TokenContext{
		AccountID: accountID,
		Email:     email,
		JTI:       jti,
		OwnerType: ownerType,
		ExpiresAt: exp,
		RawToken:  raw,
	}, true
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/domain/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/token"
)

const (
	CtxAccountIDKey = "account_id" // int64
	CtxEmailKey     = "email"      // string
	CtxJTIKey       = "jti"        // string
	CtxOwnerTypeKey = "owner_type" // model.OwnerType
	CtxTokenExpKey  = "token_exp"  // time.Time
	CtxRawTokenKey  = "raw_token"  // string（logoutで監査用に使う）
)

// bearerAuth用のJWT検証ミドルウェア。
// 署名・iss・aud・exp → jtiの存在 → blacklist照合、の順で落とす。
// どこで落ちても一律401（どの検査に落ちたかはクライアントに教えない）。
func AuthJWT(issuer *token.Issuer, revocations repository.RevocationRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//署名・iss・aud・expを検証
			claims, err := issuer.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//guardを通れるのはアクセストークンだけ
			if claims.TokenType != token.TypeAccess {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//subを数値IDへ
			accountID, err := claims.SubjectID()
			if err != nil || accountID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//blacklist照合。失効済みなら形式上validでも401
			revoked, err := revocations.IsRevoked(c.Request().Context(), claims.ID, time.Now())
			if err != nil || revoked {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			ownerType := claims.OwnerType
			if ownerType == "" {
				ownerType = model.OwnerTypeUser
			}

			//contextへ保存
			c.Set(CtxAccountIDKey, accountID)
			c.Set(CtxEmailKey, claims.Email)
			c.Set(CtxJTIKey, claims.ID)
			c.Set(CtxOwnerTypeKey, ownerType)
			c.Set(CtxTokenExpKey, claims.ExpiresAt.Time)
			c.Set(CtxRawTokenKey, rawToken)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"zerowaste/internal/config"
	"zerowaste/internal/domain/apperr"
	"zerowaste/internal/domain/model"
)

// トークン種別（typクレーム）
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Optionsは署名に関わる不変設定。起動時に一度作ってIssuerへ渡す。
// 環境変数を各所でバラバラに読まない。
type Options struct {
	Secret     []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claimsは本システムが発行するトークンの中身。
// jti（RegisteredClaims.ID）は毎回新規のuuid v4。
type Claims struct {
	Email     string          `json:"email"`
	TokenType string          `json:"typ"`
	OwnerType model.OwnerType `json:"ot"`
	jwt.RegisteredClaims
}

// Issuedは発行結果。
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// IssuerはHS256でアクセス・リフレッシュトークンを発行・検証する。
type Issuer struct {
	opts Options
}

func NewIssuer(opts Options) *Issuer {
	return &Issuer{opts: opts}
}

// 設定から組み立てるヘルパー。
func NewIssuerFromConfig(cfg config.Config) *Issuer {
	return NewIssuer(Options{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
}

// SignAccessTokenは短命のアクセストークンを発行する。
func (i *Issuer) SignAccessToken(subjectID int64, email string, ownerType model.OwnerType) (Issued, error) {
	return i.sign(subjectID, email, ownerType, TypeAccess, i.opts.AccessTTL)
}

// SignRefreshTokenは長命のリフレッシュトークンを発行する。
// jtiがwhitelist（RefreshSession）のキーになる。
func (i *Issuer) SignRefreshToken(subjectID int64, email string, ownerType model.OwnerType) (Issued, error) {
	return i.sign(subjectID, email, ownerType, TypeRefresh, i.opts.RefreshTTL)
}

func (i *Issuer) sign(subjectID int64, email string, ownerType model.OwnerType, typ string, ttl time.Duration) (Issued, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	jti := uuid.NewString()

	claims := Claims{
		Email:     email,
		TokenType: typ,
		OwnerType: ownerType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ID:        jti,
			Issuer:    i.opts.Issuer,
			Audience:  jwt.ClaimStrings{i.opts.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.opts.Secret)
	if err != nil {
		return Issued{}, err
	}

	return Issued{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// Verifyは署名・iss・aud・expを検証してクレームを返す。
// どの検証に落ちても一律ErrInvalidToken（部分的なクレームは返さない）。
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.opts.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.opts.Issuer),
		jwt.WithAudience(i.opts.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || tok == nil || !tok.Valid {
		return nil, apperr.ErrInvalidToken.WithCause(err)
	}

	// 本システムの発行物は必ずjti・sub・typを持つ。
	// 欠けていれば改ざんか他所のトークン
	if claims.ID == "" || claims.Subject == "" || claims.TokenType == "" {
		return nil, apperr.ErrInvalidToken
	}

	return claims, nil
}

// SubjectIDはsubクレームを数値IDに戻す。
func (c *Claims) SubjectID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"zerowaste/internal/config"
	"zerowaste/internal/handler"
	"zerowaste/internal/middleware"
	"zerowaste/internal/repository"
	"zerowaste/internal/token"
)

// Depsはルーティングに必要な依存一式。
type Deps struct {
	Config      config.Config
	Issuer      *token.Issuer
	Revocations repository.RevocationRepository
	Redis       *redis.Client

	Auth      *handler.AuthHandler
	AdminAuth *handler.AdminAuthHandler
	Profile   *handler.ProfileHandler
}

// Newはechoを組み立てて返す。Startは呼ばない（testでそのまま使える）。
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	RegisterRoutes(e, d)

	return e
}

// 全ルートを登録
func RegisterRoutes(e *echo.Echo, d Deps) {
	limiter := middleware.RateLimit(d.Config, d.Redis)
	authGuard := middleware.AuthJWT(d.Issuer, d.Revocations)
	adminGuard := middleware.AdminRoleGuard()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	d.Auth.RegisterRoutes(e, limiter, authGuard)
	d.AdminAuth.RegisterRoutes(e, limiter, authGuard, adminGuard)
	d.Profile.RegisterRoutes(e, authGuard)
}

// addrで待ち受ける
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/usecase"
)

// /authのHTTP
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// logoutのbodyは任意。refreshTokenがあればそのセッションだけ失効させる。
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// /auth/* を登録。register/loginは未認証＋rate limit、
// それ以外はアクセストークン必須。
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, limiter echo.MiddlewareFunc, authGuard echo.MiddlewareFunc) {
	e.POST("/auth/register", h.register, limiter)
	e.POST("/auth/login", h.login, limiter)

	g := e.Group("/auth")
	g.Use(authGuard)
	g.POST("/logout", h.logout)
	g.POST("/refresh", h.refresh)
	g.POST("/change-password", h.changePassword)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequestJSON(c, "invalid body")
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequestJSON(c, "invalid body")
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	//bodyなしでも通す
	var req LogoutRequest
	_ = c.Bind(&req)

	if err := h.uc.Logout(c.Request().Context(), tc, req.RefreshToken); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	out, err := h.uc.Refresh(c.Request().Context(), tc)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequestJSON(c, "invalid body")
	}

	if err := h.uc.ChangePassword(c.Request().Context(), tc, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

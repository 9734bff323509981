package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/usecase"
)

// /admin/authのHTTP
type AdminAuthHandler struct {
	uc *usecase.AdminAuthUsecase
}

// DI
func NewAdminAuthHandler(uc *usecase.AdminAuthUsecase) *AdminAuthHandler {
	return &AdminAuthHandler{uc: uc}
}

// /admin/auth/* を登録。loginは未認証＋rate limit、
// それ以外はアクセストークン＋admin role必須。
func (h *AdminAuthHandler) RegisterRoutes(e *echo.Echo, limiter echo.MiddlewareFunc, authGuard echo.MiddlewareFunc, adminGuard echo.MiddlewareFunc) {
	e.POST("/admin/auth/login", h.login, limiter)

	g := e.Group("/admin/auth")
	g.Use(authGuard)
	g.Use(adminGuard)
	g.POST("/logout", h.logout)
	g.POST("/force-logout/:id", h.forceLogout)
	g.GET("/audit-logs", h.auditLogs)
}

func (h *AdminAuthHandler) login(c echo.Context) error {
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

func (h *AdminAuthHandler) logout(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	if err := h.uc.Logout(c.Request().Context(), tc); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminAuthHandler) forceLogout(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	targetUserID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequestJSON(c, "invalid id")
	}

	out, err := h.uc.ForceLogout(c.Request().Context(), tc, targetUserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminAuthHandler) auditLogs(c echo.Context) error {
	q := usecase.AuditLogQuery{
		ActorType: c.QueryParam("actorType"),
		Action:    c.QueryParam("action"),
	}

	if v := c.QueryParam("actorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequestJSON(c, "invalid actorId")
		}
		q.ActorID = id
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequestJSON(c, "invalid limit")
		}
		q.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequestJSON(c, "invalid offset")
		}
		q.Offset = n
	}

	out, err := h.uc.AuditLogs(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

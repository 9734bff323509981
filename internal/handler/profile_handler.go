package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/usecase"
)

// /profileのHTTP
type ProfileHandler struct {
	uc *usecase.ProfileUsecase
}

// DI
func NewProfileHandler(uc *usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// /profile を登録。全ルートでアクセストークン必須。
func (h *ProfileHandler) RegisterRoutes(e *echo.Echo, authGuard echo.MiddlewareFunc) {
	g := e.Group("/profile")
	g.Use(authGuard)
	g.GET("", h.get)
	g.PUT("", h.update)
}

func (h *ProfileHandler) get(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	out, err := h.uc.Get(c.Request().Context(), tc)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) update(c echo.Context) error {
	tc, ok := principalFromContext(c)
	if !ok {
		return unauthorizedJSON(c)
	}

	var req usecase.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequestJSON(c, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), tc, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

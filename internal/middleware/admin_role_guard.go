package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zerowaste/internal/domain/model"
)

//contextに入っているowner typeがadminかどうかを確認します。
//AuthJWTの後に置くこと。401（未認証）と403（権限不足）は区別する。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawType := c.Get(CtxOwnerTypeKey)
			ownerType, ok := rawType.(model.OwnerType)
			if !ok || ownerType == "" {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			//userは拒否、adminだけ許可
			if ownerType != model.OwnerTypeAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}

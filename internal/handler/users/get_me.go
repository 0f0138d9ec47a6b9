// File: internal/handler/users/get_me.go
package users

import (
	"net/http"

	"bookshelf/internal/apperr"
	"bookshelf/internal/dto"
	"bookshelf/internal/middleware"

	"github.com/labstack/echo/v4"
)

// GetMeHandler 取得當前使用者資訊
// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.UserResponse
// @Failure     401 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /users/me [get]
func GetMeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		// RequireAuth 已經查過資料庫
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return apperr.ErrUnauthenticated
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}

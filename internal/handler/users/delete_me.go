// File: internal/handler/users/delete_me.go
package users

import (
	"net/http"

	"bookshelf/internal/apperr"
	"bookshelf/internal/dto"
	"bookshelf/internal/handler"
	"bookshelf/internal/middleware"

	"github.com/labstack/echo/v4"
)

// DeleteMeHandler 刪除當前使用者及其所有書籍、標籤
// @Summary     Delete current user
// @Description 連同擁有的書籍與標籤一併刪除；其他人書上的同名標籤關聯也會移除
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.DeleteUserResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /users/me [delete]
func DeleteMeHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return apperr.ErrUnauthenticated
		}
		return deleteUser(c, svc, user.ID, user.ID)
	}
}

// DeleteUserHandler 刪除指定使用者（只能刪除自己）
// @Summary     Delete user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} dto.DeleteUserResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		return deleteUser(c, svc, middleware.ActorID(c), id)
	}
}

func deleteUser(c echo.Context, svc Service, actor, userID int) error {
	stats, err := svc.DeleteUser(c.Request().Context(), actor, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.DeleteUserResponse{
		Books:        stats.Books,
		Tags:         stats.Tags,
		Associations: stats.Associations,
	})
}

// File: internal/handler/users/user.go
package users

import (
	"context"
	"net/http"

	"bookshelf/internal/dto"
	"bookshelf/internal/handler"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
)

// Service 是 users 端點需要的 service 方法
type Service interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	ListUsers(ctx context.Context, p service.Page) ([]model.User, error)
	ChangePassword(ctx context.Context, actor, userID int, oldPassword, newPassword string) error
	DeleteUser(ctx context.Context, actor, userID int) (repository.DeleteStats, error)
}

// GetUserHandler 取得指定使用者
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Router      /users/{id} [get]
func GetUserHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		user, err := svc.GetUser(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}

// ListUsersHandler 分頁列出使用者
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       skip  query    int false "略過筆數" default(0)
// @Param       limit query    int false "每頁筆數 (1-100)" default(10)
// @Success     200   {array}  dto.UserResponse
// @Failure     400   {object} dto.HTTPError
// @Router      /users [get]
func ListUsersHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := handler.BindPage(c)
		if err != nil {
			return err
		}
		users, err := svc.ListUsers(c.Request().Context(), page)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponses(users))
	}
}

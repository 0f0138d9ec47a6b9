// File: internal/handler/users/create_user.go
package users

import (
	"net/http"

	"bookshelf/internal/dto"

	"github.com/labstack/echo/v4"
)

// CreateUserHandler 註冊新使用者
// @Summary     Register a new user
// @Description 接收帳號密碼並建立新帳號；使用者名稱重複時回傳 409
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Accept      json
// @Produce     json
// @Param       username formData string true "使用者名稱"
// @Param       password formData string true "使用者密碼"
// @Success     201      {object} dto.UserResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     409      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Router      /users [post]
func CreateUserHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateUserRequest
		// Bind 根據 Content-Type 自動綁定 form 或 json
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data", Code: "VALIDATION"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error(), Code: "VALIDATION"})
		}

		created, err := svc.Register(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.NewUserResponse(created))
	}
}

// File: internal/handler/users/update_password_me.go
package users

import (
	"net/http"

	"bookshelf/internal/apperr"
	"bookshelf/internal/dto"
	"bookshelf/internal/middleware"

	"github.com/labstack/echo/v4"
)

// UpdateMyPasswordHandler 更新當前使用者密碼
// @Summary     Change my password
// @Description 需提供舊密碼；成功後先前簽發的 token 失效
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Accept      json
// @Param       old_password formData string true "舊密碼"
// @Param       new_password formData string true "新密碼"
// @Success     204
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /users/me/password [patch]
func UpdateMyPasswordHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return apperr.ErrUnauthenticated
		}

		var req dto.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data", Code: "VALIDATION"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error(), Code: "VALIDATION"})
		}

		if err := svc.ChangePassword(c.Request().Context(), user.ID, user.ID, req.OldPassword, req.NewPassword); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

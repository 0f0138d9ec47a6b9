// File: internal/handler/auth/token.go
package auth

import (
	"context"
	"net/http"

	"bookshelf/internal/dto"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
)

// Authenticator 是登入端點需要的 service 方法
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.Token, error)
}

// TokenHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳存取令牌與到期時間
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者名稱"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} dto.TokenResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     401      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Router      /token [post]
func TokenHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data", Code: "VALIDATION"})
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error(), Code: "VALIDATION"})
		}

		token, err := svc.Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.TokenResponse{
			AccessToken: token.AccessToken,
			TokenType:   token.TokenType,
			ExpiresAt:   token.ExpiresAt,
		})
	}
}

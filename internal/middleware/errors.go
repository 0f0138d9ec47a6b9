package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"bookshelf/internal/apperr"
	"bookshelf/internal/dto"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func render(err error) (int, dto.HTTPError) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, dto.HTTPError{Message: msg, Code: string(apperr.CodeForStatus(he.Code))}
	}
	return apperr.HTTPStatus(err), dto.NewHTTPError(err)
}

// ErrorHandler is the echo HTTPErrorHandler. It renders application errors
// and echo errors as dto.HTTPError bodies.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := render(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("failed to write error response", zap.Error(err))
		}
	}
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookshelf/internal/apperr"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// helper to build echo context
func newLoginCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

type stubAuth struct {
	LoginFn func(ctx context.Context, username, password string) (*service.Token, error)
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (*service.Token, error) {
	if s.LoginFn == nil {
		panic("unexpected Login")
	}
	return s.LoginFn(ctx, username, password)
}

func TestTokenHandler(t *testing.T) {
	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newLoginCtx(e, "")
	require.NoError(t, TokenHandler(&stubAuth{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// validate error
	e = echo.New()
	e.Validator = errValidator{}
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	require.NoError(t, TokenHandler(&stubAuth{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid credentials are returned for the error handler
	e = echo.New()
	e.Validator = okValidator{}
	ctx, _ = newLoginCtx(e, "username=a&password=b")
	h := TokenHandler(&stubAuth{LoginFn: func(_ context.Context, u, p string) (*service.Token, error) {
		require.Equal(t, "a", u)
		require.Equal(t, "b", p)
		return nil, apperr.ErrInvalidCredentials
	}})
	require.ErrorIs(t, h(ctx), apperr.ErrInvalidCredentials)

	// success
	exp := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	ctx, rec = newLoginCtx(e, "username=alice&password=secret")
	h = TokenHandler(&stubAuth{LoginFn: func(context.Context, string, string) (*service.Token, error) {
		return &service.Token{AccessToken: "tok", TokenType: service.TokenType, ExpiresAt: exp}, nil
	}})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"access_token":"tok","token_type":"bearer","expires_at":"2025-05-01T12:30:00Z"}`, rec.Body.String())
}

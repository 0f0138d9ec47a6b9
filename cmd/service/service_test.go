package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookshelf/internal/cache"
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/logger"
	"bookshelf/internal/repository/memory"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restoreGlobals() {
	loadConfig = func() (*config.Config, error) { return config.Load() }
	newLogger = logger.New
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer = serve
	exitFunc = func(code int) {}
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:   "postgres://db",
		RedisAddr:     "127.0.0.1:6379",
		RedisPassword: "pw",
		RedisDB:       1,
		JWTSecret:     "secret",
		TokenTTL:      30 * time.Minute,
		HTTPAddr:      ":9090",
		LogLevel:      "info",
		LogFormat:     "json",
		RunMigrations: true,
	}
}

// stubAll 讓 run() 不碰任何外部資源
func stubAll(t *testing.T, called map[string]bool) {
	t.Helper()
	t.Cleanup(restoreGlobals)
	loadConfig = func() (*config.Config, error) { return testConfig(), nil }
	newLogger = func(string, string) (*zap.Logger, error) { return zap.NewNop(), nil }
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "postgres://db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(_ context.Context, o cache.Options) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, cache.Options{Addr: "127.0.0.1:6379", Password: "pw", DB: 1}, o)
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":9090", addr)
		return nil
	}
}

func TestRunSuccess(t *testing.T) {
	called := make(map[string]bool)
	stubAll(t, called)

	require.NoError(t, run())
	for _, k := range []string{"pgx", "redis", "migrate", "start", "dbClose", "redisClose"} {
		require.True(t, called[k], k)
	}
}

func TestRunSkipsMigrations(t *testing.T) {
	called := make(map[string]bool)
	stubAll(t, called)
	loadConfig = func() (*config.Config, error) {
		cfg := testConfig()
		cfg.RunMigrations = false
		return cfg, nil
	}

	require.NoError(t, run())
	require.False(t, called["migrate"])
	require.True(t, called["start"])
}

func TestRunErrors(t *testing.T) {
	called := make(map[string]bool)
	stubAll(t, called)

	loadConfig = func() (*config.Config, error) { return nil, errors.New("DATABASE_URL is required") }
	require.ErrorContains(t, run(), "DATABASE_URL is required")
	loadConfig = func() (*config.Config, error) { return testConfig(), nil }

	newLogger = func(string, string) (*zap.Logger, error) { return nil, errors.New("bad level") }
	require.Error(t, run())
	newLogger = func(string, string) (*zap.Logger, error) { return zap.NewNop(), nil }

	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
	require.ErrorContains(t, run(), "DB 連線失敗")

	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	newRedisClient = func(context.Context, cache.Options) (cache.Cache, error) { return nil, errors.New("redis") }
	require.ErrorContains(t, run(), "Redis 連線失敗")

	newRedisClient = func(context.Context, cache.Options) (cache.Cache, error) { return &cache.FakeCache{}, nil }
	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.ErrorContains(t, run(), "Migration 執行失敗")

	runMigrationsFn = func(string) error { return nil }
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.ErrorContains(t, run(), "start")
}

func TestNewEcho(t *testing.T) {
	svc := service.New(service.Config{Store: memory.New()})
	db := &database.FakeDB{PingFn: func(context.Context) error { return nil }}
	e := newEcho(zap.NewNop(), db, cache.NewMapCache(), svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/99", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Bookshelf API")
}

func TestServeReturnsStartError(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	require.Error(t, serve(e, "bad-address"))
}

func TestMainFunction(t *testing.T) {
	stubAll(t, map[string]bool{})
	main()
}

func TestMainExit(t *testing.T) {
	stubAll(t, map[string]bool{})
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}

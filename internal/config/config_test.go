package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/books")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@localhost:5432/books", cfg.DatabaseURL)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 0, cfg.RedisDB)
	require.True(t, cfg.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, 2, cfg.RedisDB)
	require.False(t, cfg.RunMigrations)
	require.Equal(t, "console", cfg.LogFormat)
}

func TestLoadEnvFile(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "REDIS_ADDR", "JWT_SECRET", "HTTP_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("JWT_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=from-file\nREDIS_ADDR=redis:6379\nJWT_SECRET=from-file\nHTTP_ADDR=:9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.DatabaseURL)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	// 環境變數優先於檔案
	require.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoadEnvFileError(t *testing.T) {
	setRequired(t)
	dotenvLoad = func(...string) error { return errors.New("line 3: unexpected character") }
	t.Cleanup(func() { dotenvLoad = godotenv.Load })

	_, err := Load()
	require.ErrorContains(t, err, "failed to load env file")
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "0s")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	for _, msg := range []string{"DATABASE_URL", "REDIS_ADDR", "JWT_SECRET", "TOKEN_TTL", "LOG_FORMAT"} {
		require.ErrorContains(t, err, msg)
	}
}

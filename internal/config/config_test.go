package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/auth"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("JWT_TTL_MINUTES", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, DriverMongo, cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/arcade")
	t.Setenv("JWT_TTL_MINUTES", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://arcade.example.com,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/arcade", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://arcade.example.com"}, cfg.CORSOrigins)
}

func TestLoadPostgresNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "cassandra")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DRIVER", "")
	path := filepath.Join(t.TempDir(), "arcade.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt_secret: from-file\nport: \"7000\"\ndatabase_driver: memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
}

func TestLoadRejectsUnhashableAdminPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", strings.Repeat("x", auth.MaxPasswordBytes+1))

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}

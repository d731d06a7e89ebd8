package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env string) {
	t.Helper()
	t.Setenv("CI", "false")
	t.Setenv("ENV", env)
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	setEnv(t, "test")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "planner")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "meals")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "planner", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "meals", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, "host=db port=5433 user=planner password=secret dbname=meals sslmode=disable", cfg.DatabaseDSN())
	assert.Equal(t, "postgres://planner:secret@db:5433/meals?sslmode=disable", cfg.DatabaseURL())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	setEnv(t, "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_SSL_MODE", "SERVER_PORT", "REDIS_URL", "REDIS_HOST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "mealplanner", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "development", cfg.LogMode)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	setEnv(t, "development")
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pw"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret-file", cfg.JWTSecret)
	assert.Equal(t, "pw", cfg.DBPassword)
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := &Config{
		Env:        Production,
		ServerPort: "8080",
		DBHost:     "db",
		DBName:     "meals",
		DBSSLMode:  "disable",
		JWTSecret:  "short",
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_password")
	assert.Contains(t, err.Error(), "jwt_secret")
	assert.Contains(t, err.Error(), "DB_SSL_MODE")

	cfg.DBPassword = "pw"
	cfg.DBSSLMode = "require"
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "false")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}

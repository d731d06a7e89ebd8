package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LogMode         string

	// Database configuration
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	// MigrationsDir holds the numbered *.sql files applied at startup and by cmd/migrate.
	MigrationsDir string

	// Redis configuration. Rate limiting is off when neither URL nor host is set.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret          string
	RateLimitPerMinute int
}

// secretKeys are read from Docker secrets outside CI and override the environment.
var secretKeys = []string{"db_user", "db_password", "jwt_secret", "redis_password"}

// LoadConfig reads the environment (plus .env outside production) and Docker secrets, then
// validates the result for the detected environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env == Development || env == Test {
		// A missing .env is normal.
		_ = godotenv.Load()
	}

	v := newViper(env)
	if env != CI {
		for _, name := range secretKeys {
			if value := readSecret(name); value != "" {
				v.Set(strings.ToUpper(name), value)
			}
		}
	}

	cfg := &Config{
		Env:                env,
		ServerPort:         v.GetString("SERVER_PORT"),
		ServerHost:         v.GetString("SERVER_HOST"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		LogMode:            v.GetString("LOG_MODE"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSL_MODE"),
		AutoMigrate:        v.GetBool("AUTO_MIGRATE"),
		MigrationsDir:      v.GetString("MIGRATIONS_DIR"),
		RedisURL:           v.GetString("REDIS_URL"),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func newViper(env Environment) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://frontend:5173")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "mealplanner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("AUTO_MIGRATE", env != Production)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	if env == Production {
		v.SetDefault("LOG_MODE", "production")
	} else {
		v.SetDefault("LOG_MODE", "development")
	}
	return v
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// DatabaseDSN is the libpq keyword/value connection string for PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL is the same connection as a postgres:// URL, as lib/pq and migration tools
// expect.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

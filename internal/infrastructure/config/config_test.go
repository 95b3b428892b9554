package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"STOCKFLOW_APP_NAME":                   os.Getenv("STOCKFLOW_APP_NAME"),
		"STOCKFLOW_APP_ENV":                    os.Getenv("STOCKFLOW_APP_ENV"),
		"STOCKFLOW_APP_PORT":                   os.Getenv("STOCKFLOW_APP_PORT"),
		"STOCKFLOW_DATABASE_HOST":              os.Getenv("STOCKFLOW_DATABASE_HOST"),
		"STOCKFLOW_DATABASE_PORT":              os.Getenv("STOCKFLOW_DATABASE_PORT"),
		"STOCKFLOW_DATABASE_USER":              os.Getenv("STOCKFLOW_DATABASE_USER"),
		"STOCKFLOW_DATABASE_PASSWORD":          os.Getenv("STOCKFLOW_DATABASE_PASSWORD"),
		"STOCKFLOW_DATABASE_DBNAME":            os.Getenv("STOCKFLOW_DATABASE_DBNAME"),
		"STOCKFLOW_DATABASE_SSLMODE":           os.Getenv("STOCKFLOW_DATABASE_SSLMODE"),
		"STOCKFLOW_DATABASE_MAX_OPEN_CONNS":    os.Getenv("STOCKFLOW_DATABASE_MAX_OPEN_CONNS"),
		"STOCKFLOW_DATABASE_MAX_IDLE_CONNS":    os.Getenv("STOCKFLOW_DATABASE_MAX_IDLE_CONNS"),
		"STOCKFLOW_FULFILLMENT_AUTO_CLOSE":     os.Getenv("STOCKFLOW_FULFILLMENT_AUTO_CLOSE"),
		"STOCKFLOW_CACHE_REDIS_INVALIDATION":   os.Getenv("STOCKFLOW_CACHE_REDIS_INVALIDATION"),
		"STOCKFLOW_CACHE_INVALIDATION_CHANNEL": os.Getenv("STOCKFLOW_CACHE_INVALIDATION_CHANNEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "stockflow-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "stockflow", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
		assert.False(t, cfg.Fulfillment.AutoClose)
		assert.False(t, cfg.Cache.RedisInvalidation)
		assert.Equal(t, "stockflow:uom:invalidate", cfg.Cache.InvalidationChannel)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOCKFLOW_APP_NAME", "test-app")
		os.Setenv("STOCKFLOW_APP_PORT", "9000")
		os.Setenv("STOCKFLOW_DATABASE_HOST", "testdb.local")
		os.Setenv("STOCKFLOW_DATABASE_PORT", "5433")
		os.Setenv("STOCKFLOW_DATABASE_USER", "testuser")
		os.Setenv("STOCKFLOW_DATABASE_PASSWORD", "testpass")
		os.Setenv("STOCKFLOW_DATABASE_DBNAME", "testdb")
		os.Setenv("STOCKFLOW_FULFILLMENT_AUTO_CLOSE", "true")
		os.Setenv("STOCKFLOW_CACHE_REDIS_INVALIDATION", "true")
		os.Setenv("STOCKFLOW_CACHE_INVALIDATION_CHANNEL", "test:invalidate")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.True(t, cfg.Fulfillment.AutoClose)
		assert.True(t, cfg.Cache.RedisInvalidation)
		assert.Equal(t, "test:invalidate", cfg.Cache.InvalidationChannel)
	})

	t.Run("rejects idle conns exceeding open conns", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOCKFLOW_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("STOCKFLOW_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOCKFLOW_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")

		os.Setenv("STOCKFLOW_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("STOCKFLOW_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "p@ss/word",
		DBName:   "stockflow",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.local", Port: 6380}
	assert.Equal(t, "redis.local:6380", cfg.Addr())
}

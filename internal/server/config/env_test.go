package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func Test_parseEnv(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := parseEnv(&cfg, mapLookup(map[string]string{
		"AUTH_SERVER_PORT":       "6000",
		"PORT":                   "4000",
		"ACCESS_TOKEN_SECRET":    "acc",
		"REFRESH_TOKEN_SECRET":   "ref",
		"ACCESS_TOKEN_LIFETIME":  "30s",
		"REFRESH_TOKEN_LIFETIME": "604800",
		"ROTATE_REFRESH_TOKENS":  "true",
		"PASSWORD_HASH_COST":     "4",
		"TOKEN_STORE":            "redis",
		"USER_STORE":             "postgres",
		"DATABASE_DSN":           "dsn",
		"REDIS_ADDR":             "cache:6379",
		"REDIS_PASSWORD":         "pw",
		"REDIS_DB":               "3",
		"SWEEP_INTERVAL":         "2m",
		"LOGIN_RATE_LIMIT":       "0.5",
		"LOGIN_RATE_BURST":       "2",
		"LOG_LEVEL":              "warn",
		"BOOTSTRAP_USER":         "john",
		"BOOTSTRAP_PASSWORD":     "password123",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "acc", cfg.AccessTokenSecret)
	assert.Equal(t, "ref", cfg.RefreshTokenSecret)
	assert.Equal(t, 30*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*timex.Day, cfg.RefreshTokenValidityDuration)
	assert.True(t, cfg.RotateRefreshTokens)
	assert.Equal(t, 4, cfg.PasswordHashCost)
	assert.Equal(t, "redis", cfg.TokenStore)
	assert.Equal(t, "postgres", cfg.UserStore)
	assert.Equal(t, "dsn", cfg.DatabaseDSN)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "pw", cfg.RedisPassword)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 0.5, cfg.LoginRateLimit)
	assert.Equal(t, 2, cfg.LoginRateBurst)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "john", cfg.BootstrapUser)
	assert.Equal(t, "password123", cfg.BootstrapPassword)
}

func Test_parseEnv_Errors(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := parseEnv(&cfg, mapLookup(map[string]string{
		"ACCESS_TOKEN_LIFETIME": "whenever",
		"PASSWORD_HASH_COST":    "high",
		"ROTATE_REFRESH_TOKENS": "maybe",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_LIFETIME")
	assert.Contains(t, err.Error(), "PASSWORD_HASH_COST")
	assert.Contains(t, err.Error(), "ROTATE_REFRESH_TOKENS")
}

func Test_listenAddr(t *testing.T) {
	assert.Equal(t, ":6000", listenAddr("6000"))
	assert.Equal(t, "0.0.0.0:6000", listenAddr("0.0.0.0:6000"))
}

func Test_loadDotEnv_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GOPHAUTH_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GOPHAUTH_TEST_DOTENV") })

	require.NoError(t, loadDotEnv([]string{"-env", path}))
	assert.Equal(t, "from-file", os.Getenv("GOPHAUTH_TEST_DOTENV"))
}

func Test_loadDotEnv_MissingExplicitFile(t *testing.T) {
	require.Error(t, loadDotEnv([]string{"-env", filepath.Join(t.TempDir(), "missing.env")}))
}

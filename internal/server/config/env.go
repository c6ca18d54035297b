package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"github.com/joho/godotenv"
)

// loadDotEnv copies variables from a .env file into the process environment
// without overriding variables that are already set. The file named by -env
// must exist; the default ./.env is optional.
func loadDotEnv(args []string) error {
	if path := flagx.EnvFileFlags(args); path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays values from environment variables:
//
//	PORT, AUTH_SERVER_PORT   listen port (or full address)
//	ACCESS_TOKEN_SECRET      access token HMAC secret
//	REFRESH_TOKEN_SECRET     refresh token HMAC secret
//	ACCESS_TOKEN_LIFETIME    e.g. "15m", "900", "1d"
//	REFRESH_TOKEN_LIFETIME   e.g. "7d", "604800"
//	ROTATE_REFRESH_TOKENS    bool
//	PASSWORD_HASH_COST       bcrypt cost
//	TOKEN_STORE, USER_STORE  backend kinds
//	DATABASE_DSN             PostgreSQL DSN
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//	SWEEP_INTERVAL, LOGIN_RATE_LIMIT, LOGIN_RATE_BURST, LOG_LEVEL
//	BOOTSTRAP_USER, BOOTSTRAP_PASSWORD
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		d, err := timex.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = d
	}
	integer := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}

	for _, name := range []string{"AUTH_SERVER_PORT", "PORT"} {
		if v, ok := lookup(name); ok && v != "" {
			config.EndpointAddrHTTP = listenAddr(v)
			break
		}
	}

	str("ACCESS_TOKEN_SECRET", &config.AccessTokenSecret)
	str("REFRESH_TOKEN_SECRET", &config.RefreshTokenSecret)

	dur("ACCESS_TOKEN_LIFETIME", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_LIFETIME", &config.RefreshTokenValidityDuration)
	dur("SWEEP_INTERVAL", &config.SweepInterval)

	if v, ok := lookup("ROTATE_REFRESH_TOKENS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ROTATE_REFRESH_TOKENS: %w", err))
		} else {
			config.RotateRefreshTokens = b
		}
	}

	integer("PASSWORD_HASH_COST", &config.PasswordHashCost)
	str("TOKEN_STORE", &config.TokenStore)
	str("USER_STORE", &config.UserStore)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_PASSWORD", &config.RedisPassword)
	integer("REDIS_DB", &config.RedisDB)

	if v, ok := lookup("LOGIN_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOGIN_RATE_LIMIT: %w", err))
		} else {
			config.LoginRateLimit = f
		}
	}
	integer("LOGIN_RATE_BURST", &config.LoginRateBurst)
	str("LOG_LEVEL", &config.LogLevel)
	str("BOOTSTRAP_USER", &config.BootstrapUser)
	str("BOOTSTRAP_PASSWORD", &config.BootstrapPassword)

	return errors.Join(errs...)
}

// listenAddr turns a bare port ("6000") into ":6000" and leaves addresses alone.
func listenAddr(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}

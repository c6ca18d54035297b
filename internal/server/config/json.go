package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so that "15m", "7d" and plain seconds are all accepted.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_lifetime"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_lifetime"`
	RotateRefreshTokens          bool           `json:"rotate_refresh_tokens"`
	PasswordHashCost             int            `json:"password_hash_cost"`
	TokenStore                   string         `json:"token_store"`
	UserStore                    string         `json:"user_store"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisPassword                string         `json:"redis_password"`
	RedisDB                      int            `json:"redis_db"`
	SweepInterval                timex.Duration `json:"sweep_interval"`
	LoginRateLimit               float64        `json:"login_rate_limit"`
	LoginRateBurst               int            `json:"login_rate_burst"`
	LogLevel                     string         `json:"log_level"`
	BootstrapUser                string         `json:"bootstrap_user"`
	BootstrapPassword            string         `json:"bootstrap_password"`
}

func toJsonConfig(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:             c.EndpointAddrHTTP,
		AccessTokenSecret:            c.AccessTokenSecret,
		RefreshTokenSecret:           c.RefreshTokenSecret,
		AccessTokenValidityDuration:  timex.Duration{Duration: c.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: c.RefreshTokenValidityDuration},
		RotateRefreshTokens:          c.RotateRefreshTokens,
		PasswordHashCost:             c.PasswordHashCost,
		TokenStore:                   c.TokenStore,
		UserStore:                    c.UserStore,
		DatabaseDSN:                  c.DatabaseDSN,
		RedisAddr:                    c.RedisAddr,
		RedisPassword:                c.RedisPassword,
		RedisDB:                      c.RedisDB,
		SweepInterval:                timex.Duration{Duration: c.SweepInterval},
		LoginRateLimit:               c.LoginRateLimit,
		LoginRateBurst:               c.LoginRateBurst,
		LogLevel:                     c.LogLevel,
		BootstrapUser:                c.BootstrapUser,
		BootstrapPassword:            c.BootstrapPassword,
	}
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file keep their current values. Without the flag nothing happens.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := toJsonConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.AccessTokenSecret = c.AccessTokenSecret
	config.RefreshTokenSecret = c.RefreshTokenSecret
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.RotateRefreshTokens = c.RotateRefreshTokens
	config.PasswordHashCost = c.PasswordHashCost
	config.TokenStore = c.TokenStore
	config.UserStore = c.UserStore
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.SweepInterval = c.SweepInterval.Duration
	config.LoginRateLimit = c.LoginRateLimit
	config.LoginRateBurst = c.LoginRateBurst
	config.LogLevel = c.LogLevel
	config.BootstrapUser = c.BootstrapUser
	config.BootstrapPassword = c.BootstrapPassword
	return nil
}

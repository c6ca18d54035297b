package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-s", "acc", "-S", "ref", "-t", "1", "-r", "3",
				"-k", "12", "-store", "redis", "-users", "postgres", "-d", "db", "-l", "debug",
				"-c", "ignored.json",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:9090",
				AccessTokenSecret:            "acc",
				RefreshTokenSecret:           "ref",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				PasswordHashCost:             12,
				TokenStore:                   "redis",
				UserStore:                    "postgres",
				DatabaseDSN:                  "db",
				LogLevel:                     "debug",
			},
		},
		{
			name: "durations untouched when not given",
			args: []string{"-a", ":1"},
			expected: &Config{
				EndpointAddrHTTP:             ":1",
				AccessTokenValidityDuration:  30 * time.Second,
				RefreshTokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name:    "bad integer",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				AccessTokenValidityDuration:  30 * time.Second,
				RefreshTokenValidityDuration: 90 * time.Second,
			}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

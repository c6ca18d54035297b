// Package config holds settings for the interactive auth client.
package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerURL: base URL of the auth server HTTP API.
//   - RequestTimeout: per-request timeout.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:4000"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then AUTH_SERVER_URL, then the -s and
// -timeout flags.
func LoadConfig() *Config {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v, ok := lookup("AUTH_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "auth server base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-s", "-timeout"}))

	return cfg
}

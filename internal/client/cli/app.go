// Package cli is an interactive client for the auth server.
package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/api"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

// authAPI is the part of api.Client the commands use.
type authAPI interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*api.Tokens, error)
	Renew(ctx context.Context, refreshToken string) (*api.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	WhoAmI(ctx context.Context, accessToken string) (*api.Identity, error)
}

type App struct {
	config   *config.Config
	api      authAPI
	reader   *bufio.Reader
	out      io.Writer
	userName string
	tokens   api.Tokens
}

func NewApp(c *config.Config) *App {
	hc := &http.Client{Timeout: c.RequestTimeout}
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, hc),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.tokens.RefreshToken != ""
}

func (a *App) status() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

// Run starts the REPL on the app's reader.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.status, a.reader)
}

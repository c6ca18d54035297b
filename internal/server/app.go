// Package server wires the auth server together: configuration, logging,
// repositories, the session service, the HTTP API and the token sweeper.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *repomanager.Manager
	server  *rest.Server
	sweeper *services.Sweeper
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(out, level)

	signer, err := auth.NewSigner(auth.SignerConfig{
		AccessSecret:    []byte(c.AccessTokenSecret),
		RefreshSecret:   []byte(c.RefreshTokenSecret),
		AccessLifetime:  c.AccessTokenValidityDuration,
		RefreshLifetime: c.RefreshTokenValidityDuration,
	})
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewPasswordHasher(c.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	repos, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("repositories init error: %w", err)
	}

	m := metrics.New()
	sessions := services.NewSessionService(repos.Users(), repos.RefreshTokens(), signer, hasher, services.Options{
		RotateRefreshTokens: c.RotateRefreshTokens,
		Logger:              logger.With("module", "sessions"),
		Metrics:             m,
	})

	if c.BootstrapUser != "" {
		if err := seedUser(ctx, sessions, c.BootstrapUser, c.BootstrapPassword, logger); err != nil {
			_ = repos.Close()
			return nil, err
		}
	}

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		server: rest.NewServer(sessions, auth.NewGuard(signer), rest.Options{
			Address:        c.EndpointAddrHTTP,
			LoginRateLimit: c.LoginRateLimit,
			LoginRateBurst: c.LoginRateBurst,
			Logger:         logger,
			Metrics:        m,
		}),
	}
	if p, ok := repos.Purger(); ok {
		app.sweeper = services.NewSweeper(p, c.SweepInterval, logger.With("module", "sweeper"), m)
	}
	return app, nil
}

// seedUser registers the bootstrap account unless it already exists.
func seedUser(ctx context.Context, sessions rest.Sessions, username, password string, log logging.Logger) error {
	_, err := sessions.Register(ctx, username, password)
	switch {
	case err == nil:
		log.Info(ctx, "bootstrap user created", "user", username)
	case errors.Is(err, common.ErrUserExists):
		log.Debug(ctx, "bootstrap user already exists", "user", username)
	default:
		return fmt.Errorf("bootstrap user %q: %w", username, err)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or a component fails,
// then releases the repositories.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"token_store", app.config.TokenStore,
		"user_store", app.config.UserStore,
		"rotate_refresh_tokens", app.config.RotateRefreshTokens,
	)
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})
	if app.sweeper != nil {
		g.Go(func() error {
			return app.sweeper.Run(gctx)
		})
	}

	err := g.Wait()
	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "closing repositories", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}

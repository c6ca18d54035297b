// Package repomanager builds the user directory and the credential store
// selected by configuration and owns their connections.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// Manager owns the repositories built from config.Config.
type Manager struct {
	users  users.Repository
	tokens refreshtokens.Repository

	db      *sql.DB
	closers []io.Closer
}

// seams for tests
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	openRedis = func(ctx context.Context, opts refreshtokens.RedisOptions) (refreshtokens.Repository, io.Closer, error) {
		repo, client, err := refreshtokens.NewRedisRepository(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return repo, client, nil
	}
)

// New opens the configured backends. PostgreSQL is opened once, migrated and
// shared when both the directory and the store live there.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Manager, error) {
	m := &Manager{}
	if err := m.open(ctx, cfg, log); err != nil {
		_ = m.Close()
		return nil, err
	}
	log.Info(ctx, "repositories ready", "users", cfg.UserStore, "tokens", cfg.TokenStore)
	return m, nil
}

func (m *Manager) open(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	if cfg.UserStore == config.StorePostgres || cfg.TokenStore == config.StorePostgres {
		if err := m.openPostgres(ctx, cfg.DatabaseDSN); err != nil {
			return err
		}
		log.Info(ctx, "postgres connected, migrations applied")
	}

	switch cfg.UserStore {
	case config.StoreMemory:
		m.users = users.NewMemoryRepository(time.Now)
	case config.StorePostgres:
		m.users = users.NewPostgresRepository(m.db)
	default:
		return fmt.Errorf("unknown user store %q", cfg.UserStore)
	}

	switch cfg.TokenStore {
	case config.StoreMemory:
		m.tokens = refreshtokens.NewMemoryRepository(time.Now)
	case config.StorePostgres:
		m.tokens = refreshtokens.NewPostgresRepository(m.db, time.Now)
	case config.StoreRedis:
		repo, closer, err := openRedis(ctx, refreshtokens.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		m.tokens = repo
		m.closers = append(m.closers, closer)
		log.Info(ctx, "redis connected", "addr", cfg.RedisAddr)
	default:
		return fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
	return nil
}

func (m *Manager) openPostgres(ctx context.Context, dsn string) error {
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	m.db = db
	m.closers = append(m.closers, db)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (m *Manager) Users() users.Repository { return m.users }

func (m *Manager) RefreshTokens() refreshtokens.Repository { return m.tokens }

// Purger returns the credential store as a Purger when it keeps expired
// entries around.
func (m *Manager) Purger() (refreshtokens.Purger, bool) {
	p, ok := m.tokens.(refreshtokens.Purger)
	return p, ok
}

// Close releases every opened connection.
func (m *Manager) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

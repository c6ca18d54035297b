package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/go-redis/redismock/v9"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(usersKind, tokensKind string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UserStore = usersKind
	cfg.TokenStore = tokensKind
	return cfg
}

func stubMigrations(t *testing.T, err error) *int {
	t.Helper()
	calls := 0
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		calls++
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return err
	}
	t.Cleanup(func() { gooseUpContext = orig })
	return &calls
}

func stubDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	orig := openDB
	openDB = func(dsn string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = orig })
	return mock
}

func TestNew_Memory(t *testing.T) {
	m, err := New(context.Background(), testConfig(config.StoreMemory, config.StoreMemory), logging.Nop{})
	require.NoError(t, err)
	defer m.Close()

	assert.IsType(t, &users.MemoryRepository{}, m.Users())
	assert.IsType(t, &refreshtokens.MemoryRepository{}, m.RefreshTokens())

	_, ok := m.Purger()
	assert.True(t, ok)
}

func TestNew_Postgres(t *testing.T) {
	mock := stubDB(t)
	calls := stubMigrations(t, nil)

	m, err := New(context.Background(), testConfig(config.StorePostgres, config.StorePostgres), logging.Nop{})
	require.NoError(t, err)

	assert.Equal(t, 1, *calls, "migrations run once for the shared connection")
	assert.IsType(t, &users.PostgresRepository{}, m.Users())
	assert.IsType(t, &refreshtokens.PostgresRepository{}, m.RefreshTokens())

	mock.ExpectClose()
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_MigrationError_ClosesDB(t *testing.T) {
	mock := stubDB(t)
	stubMigrations(t, errors.New("boom"))
	mock.ExpectClose()

	_, err := New(context.Background(), testConfig(config.StorePostgres, config.StoreMemory), logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations: boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_OpenDBError(t *testing.T) {
	orig := openDB
	openDB = func(dsn string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
	defer func() { openDB = orig }()

	_, err := New(context.Background(), testConfig(config.StorePostgres, config.StoreMemory), logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres")
}

func TestNew_Redis(t *testing.T) {
	client, _ := redismock.NewClientMock()
	orig := openRedis
	var gotOpts refreshtokens.RedisOptions
	openRedis = func(ctx context.Context, opts refreshtokens.RedisOptions) (refreshtokens.Repository, io.Closer, error) {
		gotOpts = opts
		return refreshtokens.NewRedisRepositoryWithClient(client), client, nil
	}
	defer func() { openRedis = orig }()

	cfg := testConfig(config.StoreMemory, config.StoreRedis)
	cfg.RedisAddr = "redis:6379"
	cfg.RedisDB = 2

	m, err := New(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, refreshtokens.RedisOptions{Addr: "redis:6379", DB: 2}, gotOpts)
	assert.IsType(t, &refreshtokens.RedisRepository{}, m.RefreshTokens())

	_, ok := m.Purger()
	assert.False(t, ok, "redis expires keys natively")
}

func TestNew_RedisError(t *testing.T) {
	orig := openRedis
	openRedis = func(ctx context.Context, opts refreshtokens.RedisOptions) (refreshtokens.Repository, io.Closer, error) {
		return nil, nil, errors.New("refused")
	}
	defer func() { openRedis = orig }()

	_, err := New(context.Background(), testConfig(config.StoreMemory, config.StoreRedis), logging.Nop{})
	assert.EqualError(t, err, "refused")
}

func TestNew_UnknownKinds(t *testing.T) {
	_, err := New(context.Background(), testConfig("ldap", config.StoreMemory), logging.Nop{})
	assert.ErrorContains(t, err, `unknown user store "ldap"`)

	_, err = New(context.Background(), testConfig(config.StoreMemory, "etcd"), logging.Nop{})
	assert.ErrorContains(t, err, `unknown token store "etcd"`)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stubMigrations(t, errors.New("boom"))

	assert.EqualError(t, RunMigrations(context.Background(), db), "boom")
}

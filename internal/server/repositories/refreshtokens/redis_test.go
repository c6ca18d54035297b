package refreshtokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisWithMock(t *testing.T) (*RedisRepository, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepositoryWithClient(client), mock
}

func TestRedis_Put(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectSet("refreshToken:alice", "r1", 7*24*time.Hour).SetVal("OK")

	require.NoError(t, r.Put(context.Background(), "alice", "r1", 7*24*time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Put_Error(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectSet("refreshToken:alice", "r1", time.Hour).SetErr(errors.New("conn reset"))

	err := r.Put(context.Background(), "alice", "r1", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Get(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectGet("refreshToken:alice").SetVal("r1")

	got, err := r.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "r1", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Get_Missing(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectGet("refreshToken:bob").RedisNil()

	_, err := r.Get(context.Background(), "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Get_Error(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectGet("refreshToken:alice").SetErr(errors.New("timeout"))

	_, err := r.Get(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestRedis_Delete(t *testing.T) {
	r, mock := newRedisWithMock(t)

	mock.ExpectDel("refreshToken:alice").SetVal(1)
	mock.ExpectDel("refreshToken:alice").SetVal(0)

	require.NoError(t, r.Delete(context.Background(), "alice"))
	require.NoError(t, r.Delete(context.Background(), "alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisRepository_PingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, _, err := NewRedisRepository(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisOptions describes how to reach the Redis server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisRepository stores refresh tokens as plain string keys with a native
// TTL, so it needs no purging.
type RedisRepository struct {
	client redis.Cmdable
}

// NewRedisRepository connects to Redis and checks the connection with PING.
func NewRedisRepository(ctx context.Context, opts RedisOptions) (*RedisRepository, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewRedisRepositoryWithClient(client), client, nil
}

// NewRedisRepositoryWithClient wraps an existing client.
func NewRedisRepositoryWithClient(client redis.Cmdable) *RedisRepository {
	return &RedisRepository{client: client}
}

func key(username string) string {
	return common.RefreshTokenKeyPrefix + username
}

func (r *RedisRepository) Put(ctx context.Context, username, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key(username), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, username string) (string, error) {
	token, err := r.client.Get(ctx, key(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return token, nil
}

func (r *RedisRepository) Delete(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

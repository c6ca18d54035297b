package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MemoryRepository keeps refresh tokens in process memory. Contents are lost
// on restart and are not shared between server instances.
type MemoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

// NewMemoryRepository returns an empty store. A nil clock means time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{
		tokens: make(map[string]models.RefreshToken),
		now:    now,
	}
}

func (r *MemoryRepository) Put(_ context.Context, username, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[username] = models.RefreshToken{
		Username:  username,
		Token:     token,
		ExpiresAt: r.now().Add(ttl),
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, username string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[username]
	if !ok || t.Expired(r.now()) {
		return "", common.ErrorNotFound
	}
	return t.Token, nil
}

func (r *MemoryRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, username)
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (r *MemoryRepository) Purge(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int64
	for k, t := range r.tokens {
		if t.Expired(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

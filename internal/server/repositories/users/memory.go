package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MemoryRepository is a process-local user directory. IDs are assigned
// sequentially starting from 1.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []models.User
	index map[string]int
	now   func() time.Time
}

func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{index: make(map[string]int), now: now}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[user.Username]; ok {
		return nil, common.ErrUserExists
	}

	u := *user
	u.ID = int64(len(r.users) + 1)
	u.CreatedAt = r.now()
	r.users = append(r.users, u)
	r.index[u.Username] = len(r.users) - 1

	return &u, nil
}

func (r *MemoryRepository) GetUserByLogin(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.users[i]
	return &u, nil
}

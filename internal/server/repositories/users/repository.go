// Package users is the user directory: it creates accounts and looks them
// up by username.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// Create stores user and returns it with ID set. It fails with
	// common.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}

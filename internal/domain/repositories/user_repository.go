package repositories

import (
	"context"

	"github.com/platescout/platescout/internal/domain/entities"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	// Create stores a new user. Returns a conflict error when the
	// userid is already taken.
	Create(ctx context.Context, user *entities.User) error

	// GetByUserID retrieves a user by login name
	GetByUserID(ctx context.Context, userID string) (*entities.User, error)
}

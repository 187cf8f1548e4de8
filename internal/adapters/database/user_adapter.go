package database

import (
	"context"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/infrastructure/clients/surreal"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

const userTable = "users"

// UserAdapter implements UserRepository backed by SurrealDB. Accounts are
// keyed by login name, so uniqueness is enforced by the store itself.
type UserAdapter struct {
	client *surreal.Client
}

// NewUserAdapter creates a new SurrealDB user adapter
func NewUserAdapter(client *surreal.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

type userRecord struct {
	ID           *models.RecordID `json:"id,omitempty"`
	UserID       string           `json:"userid"`
	PasswordHash string           `json:"password_hash"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Create stores a new user. Creating an already-taken record ID fails at
// the store, which is what makes duplicate registration a conflict.
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	rid := models.NewRecordID(userTable, user.UserID)
	rec := &userRecord{
		ID:           &rid,
		UserID:       user.UserID,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := surrealdb.Create[userRecord](ctx, a.client.DB(), userTable, rec); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return apperrors.NewConflictError("Username is used")
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByUserID retrieves a user by login name
func (a *UserAdapter) GetByUserID(ctx context.Context, userID string) (*entities.User, error) {
	rid := models.NewRecordID(userTable, userID)
	rec, err := surrealdb.Select[userRecord](ctx, a.client.DB(), rid)
	if err != nil {
		if isNoRecord(err) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if rec == nil || rec.ID == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return &entities.User{
		UserID:       rec.UserID,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

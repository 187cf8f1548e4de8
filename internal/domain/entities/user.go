package entities

import (
	"time"

	"github.com/platescout/platescout/pkg/errors"
)

// User represents a registered account. UserID doubles as the login name
// and the record key, so two users can never share a name.
type User struct {
	UserID       string    `json:"userid"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidateCredentials checks a raw username/password pair before it is
// hashed or compared. Both fields must be non-empty.
func ValidateCredentials(userID, password string) error {
	if userID == "" {
		return errors.NewValidationError("Username is empty")
	}
	if password == "" {
		return errors.NewValidationError("Password is empty")
	}
	return nil
}

package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("wrong credentials")
)

// User is a registered account. PasswordHash holds the digest, never the secret.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines the storage operations for users.
type Repository interface {
	// Create inserts u and sets its ID. A unique violation on username or
	// email is reported as ErrUsernameTaken or ErrEmailTaken.
	Create(ctx context.Context, u *User) error

	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

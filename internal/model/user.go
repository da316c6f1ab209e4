package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Directory defines lookup and creation operations against the user
// directory. The auth core never mutates users beyond creation.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a directory principal with its stored password hash.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

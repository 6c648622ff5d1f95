package interfaces

import (
	"context"

	"edgemesh/auth/domain"
)

// UserStore persists users keyed by email. Implemented by adapters/redis.
//
//go:generate moq -stub -out mock/user_store.go -pkg mock . UserStore
type UserStore interface {
	// GetByEmail returns the user or domain.ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Create stores a new user; domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user domain.User) error
}

package interfaces

import (
	"context"
	"time"

	"edgemesh/auth/domain"
	"edgemesh/token"
)

// Authenticator is the signup/login surface used by the HTTP handlers. Implemented by
// *service.AuthService.
//
//go:generate moq -stub -out mock/authenticator.go -pkg mock . Authenticator
type Authenticator interface {
	Signup(ctx context.Context, email, username, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (token.Token, error)
	TokenTTL() time.Duration
}

package interfaces

import (
	"time"

	"edgemesh/token"
)

// TokenIssuer mints tokens for verified users. Implemented by *token.Issuer.
//
//go:generate moq -stub -out mock/token_issuer.go -pkg mock . TokenIssuer
type TokenIssuer interface {
	Issue(subject string, credentialsVerified bool) (token.Token, error)
	TTL() time.Duration
}

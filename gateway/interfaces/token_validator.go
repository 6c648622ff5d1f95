package interfaces

import "edgemesh/token"

// TokenValidator validates bearer tokens on non-public routes. Implemented by *token.Validator.
//
//go:generate moq -stub -out mock/token_validator.go -pkg mock . TokenValidator
type TokenValidator interface {
	// Validate returns the token subject and expiry, or an error wrapping token.ErrTokenInvalid.
	Validate(raw string) (token.ValidatedToken, error)
}

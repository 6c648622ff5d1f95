// Package token issues and validates the signed bearer tokens shared by the auth service and the
// gateway. Tokens are HS256 JWTs carrying only {sub, iat, exp}; validation needs nothing but the
// shared key and a clock.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"edgemesh/helpers"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the minimum signing key size in bytes (HS256 needs at least 256 bits).
const MinKeyLength = 32

// DefaultTTL is the lifetime of an issued token when the issuer is not configured otherwise.
const DefaultTTL = time.Hour

var (
	// ErrTokenInvalid is returned for every validation failure: malformed, bad signature, wrong
	// algorithm, missing subject, missing or passed expiry.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrCredentialsNotVerified is returned by Issue when the caller has not verified credentials.
	ErrCredentialsNotVerified = errors.New("credentials not verified")
	// ErrEmptySubject is returned by Issue for an empty subject.
	ErrEmptySubject = errors.New("token subject is required")
	// ErrSigningKeyMissing is returned by LoadSigningKey for an empty secret.
	ErrSigningKeyMissing = errors.New("signing key is required")
	// ErrSigningKeyTooShort is returned by LoadSigningKey for keys under MinKeyLength bytes.
	ErrSigningKeyTooShort = errors.New("signing key must be at least 32 bytes")
)

// Token is an issued bearer token. Raw is the compact form sent as "Authorization: Bearer <Raw>".
type Token struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Signature string
	Raw       string
}

// ValidatedToken is what a successful Validate returns.
type ValidatedToken struct {
	Subject   string
	ExpiresAt time.Time
}

// LoadSigningKey turns the configured secret into key bytes. A secret that decodes as standard
// base64 to at least MinKeyLength bytes is used decoded; otherwise the raw bytes are used and must be
// at least MinKeyLength long. A 32-character alphanumeric secret is therefore used as is.
//
// Called from every cmd/main that issues or validates tokens; an error there aborts startup.
func LoadSigningKey(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSigningKeyMissing
	}
	key := []byte(secret)
	decoded, err := base64.StdEncoding.DecodeString(secret)
	switch {
	case err == nil && len(decoded) >= MinKeyLength:
		return decoded, nil
	case len(key) >= MinKeyLength:
		return key, nil
	case err == nil:
		return nil, fmt.Errorf("%w: got %d bytes after base64 decoding", ErrSigningKeyTooShort, len(decoded))
	default:
		return nil, fmt.Errorf("%w: got %d", ErrSigningKeyTooShort, len(key))
	}
}

// Issuer signs tokens for verified subjects.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer creates an Issuer signing with key. ttl <= 0 falls back to DefaultTTL. Panics on nil key or now.
//
// Parameters: key: output of LoadSigningKey; ttl: token lifetime; now: clock (time.Now in prod, fixed in tests).
//
// Called from auth/cmd main when building the auth service.
func NewIssuer(key []byte, ttl time.Duration, now func() time.Time) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		key: helpers.NilPanic(key, "token.token.go: key is required"),
		ttl: ttl,
		now: helpers.NilPanic(now, "token.token.go: now is required"),
	}
}

// TTL returns the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for subject with iat=now and exp=now+TTL.
//
// Parameters: subject: authenticated principal (email); credentialsVerified: must be true, the
// caller vouches that the credential check already succeeded.
//
// Returns: (Token, nil); ErrCredentialsNotVerified or ErrEmptySubject when refused.
func (i *Issuer) Issue(subject string, credentialsVerified bool) (Token, error) {
	if !credentialsVerified {
		return Token{}, ErrCredentialsNotVerified
	}
	if subject == "" {
		return Token{}, ErrEmptySubject
	}
	// NumericDate carries whole seconds, keep the returned times consistent with the claims.
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Signature: raw[strings.LastIndexByte(raw, '.')+1:],
		Raw:       raw,
	}, nil
}

// Validator checks tokens against the shared key. It is safe for concurrent use.
type Validator struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewValidator creates a Validator. Panics on nil key or now.
func NewValidator(key []byte, now func() time.Time) *Validator {
	v := &Validator{
		key: helpers.NilPanic(key, "token.token.go: key is required"),
		now: helpers.NilPanic(now, "token.token.go: now is required"),
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	return v
}

// Validate verifies the signature of raw and that now < exp. Any failure is ErrTokenInvalid
// (wrapping the parser error for logs).
//
// Called from the gateway proxy for every non-public route.
func (v *Validator) Validate(raw string) (ValidatedToken, error) {
	if raw == "" {
		return ValidatedToken{}, ErrTokenInvalid
	}
	claims := &jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return ValidatedToken{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return ValidatedToken{}, ErrTokenInvalid
	}
	return ValidatedToken{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

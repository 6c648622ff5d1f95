// Package service implements signup and login for the auth service.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"edgemesh/auth/domain"
	"edgemesh/auth/interfaces"
	"edgemesh/helpers"
	"edgemesh/myerror"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes of a password.
	maxPasswordLength = 72
)

// AuthService registers users and exchanges verified credentials for tokens.
type AuthService struct {
	users     interfaces.UserStore
	issuer    interfaces.TokenIssuer
	cost      int
	dummyHash []byte
	logger    log.Logger
}

// NewAuthService creates the service. Panics on nil dependencies. cost is the bcrypt cost; values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
//
// Called from auth cmd/main.
func NewAuthService(users interfaces.UserStore, issuer interfaces.TokenIssuer, cost int, logger log.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// dummyHash stands in for the stored hash when the email is unknown.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("edgemesh-unknown-user"), cost)
	if err != nil {
		panic("service.auth.go: " + err.Error())
	}
	return &AuthService{
		users:     helpers.NilPanic(users, "service.auth.go: users is required"),
		issuer:    helpers.NilPanic(issuer, "service.auth.go: issuer is required"),
		cost:      cost,
		dummyHash: dummyHash,
		logger:    log.With(helpers.NilPanic(logger, "service.auth.go: logger is required"), "component", "auth_service"),
	}
}

// Signup validates the input, hashes the password and stores a USER account.
//
// Returns: the stored user (with hash); bad_parameter on invalid input; conflict when the email
// is taken; internal errors from the store otherwise.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (domain.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return domain.User{}, myerror.NewBadParameterError(
			fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength), nil)
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, myerror.NewInternalServerError("failed to hash password", err)
	}
	user := domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			level.Info(s.logger).Log("msg", "signup rejected, email taken", "email", email)
			return domain.User{}, myerror.NewConflictError("user with provided email already exists", err)
		}
		return domain.User{}, myerror.NewInternalServerError("failed to store user", err)
	}
	level.Info(s.logger).Log("msg", "user signed up", "email", email)
	return user, nil
}

// Login verifies email and password and issues a token whose subject is the email.
//
// Returns: the token; invalid_user_or_password for an unknown email or a wrong password (the two
// are indistinguishable to the caller); bad_parameter on empty input.
func (s *AuthService) Login(ctx context.Context, email, password string) (token.Token, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return token.Token{}, myerror.NewBadParameterError("email and password are required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return token.Token{}, myerror.NewInternalServerError("failed to load user", err)
	}
	hash := []byte(user.PasswordHash)
	if err != nil {
		hash = s.dummyHash
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password)); cmpErr != nil || err != nil {
		level.Info(s.logger).Log("msg", "login rejected", "email", email)
		return token.Token{}, myerror.NewInvalidUserOrPasswordError("invalid email or password", nil)
	}

	issued, err := s.issuer.Issue(user.Email, true)
	if err != nil {
		return token.Token{}, myerror.NewInternalServerError("failed to issue token", err)
	}
	level.Info(s.logger).Log("msg", "user logged in", "email", email)
	return issued, nil
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.issuer.TTL()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return myerror.NewBadParameterError("email is required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return myerror.NewBadParameterError("email should be valid", err)
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return myerror.NewBadParameterError(fmt.Sprintf("password must be at least %d characters long", minPasswordLength), nil)
	case len(password) > maxPasswordLength:
		return myerror.NewBadParameterError(fmt.Sprintf("password must be at most %d bytes long", maxPasswordLength), nil)
	}
	return nil
}

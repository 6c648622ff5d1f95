package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"edgemesh/auth/domain"
	"edgemesh/auth/interfaces/mock"
	"edgemesh/myerror"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryStore backs the UserStore mock with a map.
func memoryStore() *mock.UserStoreMock {
	users := map[string]domain.User{}
	return &mock.UserStoreMock{
		CreateFunc: func(_ context.Context, user domain.User) error {
			if _, ok := users[user.Email]; ok {
				return domain.ErrUserExists
			}
			users[user.Email] = user
			return nil
		},
		GetByEmailFunc: func(_ context.Context, email string) (domain.User, error) {
			user, ok := users[email]
			if !ok {
				return domain.User{}, domain.ErrUserNotFound
			}
			return user, nil
		},
	}
}

func issuerMock() *mock.TokenIssuerMock {
	return &mock.TokenIssuerMock{
		IssueFunc: func(subject string, verified bool) (token.Token, error) {
			if !verified {
				return token.Token{}, token.ErrCredentialsNotVerified
			}
			return token.Token{Subject: subject, Raw: "signed-" + subject}, nil
		},
		TTLFunc: func() time.Duration { return time.Hour },
	}
}

func newTestService(store *mock.UserStoreMock, issuer *mock.TokenIssuerMock) *AuthService {
	return NewAuthService(store, issuer, bcrypt.MinCost, log.NewNopLogger())
}

func TestNewAuthService_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "service.auth.go: users is required", func() {
		NewAuthService(nil, issuerMock(), bcrypt.MinCost, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "service.auth.go: issuer is required", func() {
		NewAuthService(memoryStore(), nil, bcrypt.MinCost, log.NewNopLogger())
	})
}

func TestAuthService_Signup(t *testing.T) {
	store := memoryStore()
	s := newTestService(store, issuerMock())
	ctx := context.Background()

	user, err := s.Signup(ctx, " Alice@Example.com ", "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))

	_, err = s.Signup(ctx, "alice@example.com", "alice2", "another-pass")
	assert.True(t, myerror.IsConflictError(err))
}

func TestAuthService_Signup_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		username string
		password string
		want     string
	}{
		{"email_missing", "", "bob", "password1", "email is required"},
		{"email_invalid", "bob", "bob", "password1", "email should be valid"},
		{"email_no_domain_dot", "bob@localhost", "bob", "password1", "email should be valid"},
		{"email_display_name", "Bob <bob@example.com>", "bob", "password1", "email should be valid"},
		{"username_short", "bob@example.com", "bo", "password1", "username must be between"},
		{"password_short", "bob@example.com", "bob", "short", "at least 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memoryStore()
			_, err := newTestService(store, issuerMock()).Signup(context.Background(), tt.email, tt.username, tt.password)
			require.Error(t, err)
			assert.True(t, myerror.IsBadParameterError(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, store.CreateCalls())
		})
	}
}

func TestAuthService_Signup_StoreFailure(t *testing.T) {
	store := memoryStore()
	store.CreateFunc = func(context.Context, domain.User) error { return errors.New("redis down") }
	_, err := newTestService(store, issuerMock()).Signup(context.Background(),
		"bob@example.com", "bob", "password1")
	assert.True(t, myerror.IsMyError(err, myerror.ErrInternalServerError))
}

func TestAuthService_Login(t *testing.T) {
	store := memoryStore()
	issuer := issuerMock()
	s := newTestService(store, issuer)
	ctx := context.Background()
	_, err := s.Signup(ctx, "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		tok, err := s.Login(ctx, "ALICE@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "signed-alice@example.com", tok.Raw)
		calls := issuer.IssueCalls()
		require.NotEmpty(t, calls)
		assert.Equal(t, "alice@example.com", calls[len(calls)-1].Subject)
		assert.True(t, calls[len(calls)-1].CredentialsVerified)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := s.Login(ctx, "alice@example.com", "wrong-pass")
		assert.True(t, myerror.IsMyError(err, myerror.ErrInvalidUserOrPassword))
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := s.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.True(t, myerror.IsMyError(err, myerror.ErrInvalidUserOrPassword))
	})

	t.Run("empty_input", func(t *testing.T) {
		_, err := s.Login(ctx, "", "")
		assert.True(t, myerror.IsBadParameterError(err))
	})

	t.Run("store_failure", func(t *testing.T) {
		failing := memoryStore()
		failing.GetByEmailFunc = func(context.Context, string) (domain.User, error) {
			return domain.User{}, errors.New("redis down")
		}
		_, err := newTestService(failing, issuerMock()).Login(ctx, "alice@example.com", "s3cret-pass")
		assert.True(t, myerror.IsMyError(err, myerror.ErrInternalServerError))
	})

	assert.Equal(t, time.Hour, s.TokenTTL())
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"edgemesh/auth/domain"
	"edgemesh/auth/interfaces"
	"edgemesh/helpers"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "user"

type userStore struct {
	client redis.UniversalClient
}

// NewUserStore creates a UserStore keyed by user:{email} with the JSON encoded domain.User as value.
func NewUserStore(client redis.UniversalClient) interfaces.UserStore {
	return &userStore{
		client: helpers.NilPanic(client, "redis.user_store.go: client is required"),
	}
}

func userKey(email string) string {
	return keyPrefix + ":" + email
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	data, err := s.client.Get(ctx, userKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to get user from redis: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, fmt.Errorf("failed to unmarshal user from redis: %w", err)
	}
	return u, nil
}

// Create stores user only if the email is free (SETNX).
func (s *userStore) Create(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	created, err := s.client.SetNX(ctx, userKey(user.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store user in redis: %w", err)
	}
	if !created {
		return domain.ErrUserExists
	}
	return nil
}

package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const scenarioLoginErrors = "login_errors"

// Auth service error codes.
const (
	codeInvalidUserOrPassword = "invalid_user_or_password"
	codeConflict              = "conflict"
	codeBadParameter          = "bad_parameter"
)

func init() {
	Register(scenarioLoginErrors, runLoginErrors)
}

// runLoginErrors covers the auth failures a client sees through the gateway: wrong password,
// unknown email, duplicate signup and an invalid signup body.
func runLoginErrors(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	email := uniqueEmail("login")
	if err := Signup(ctx, cfg, email, defaultPassword); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	steps := []struct {
		name   string
		path   string
		body   map[string]string
		status int
		code   string
	}{
		{"wrong_password", loginPath, map[string]string{"email": email, "password": "not-the-password"}, http.StatusUnauthorized, codeInvalidUserOrPassword},
		{"unknown_email", loginPath, map[string]string{"email": uniqueEmail("ghost"), "password": defaultPassword}, http.StatusUnauthorized, codeInvalidUserOrPassword},
		{"duplicate_signup", signupPath, map[string]string{"email": email, "username": "again", "password": defaultPassword}, http.StatusConflict, codeConflict},
		{"invalid_signup", signupPath, map[string]string{"email": "not-an-email", "username": "x", "password": "short"}, http.StatusBadRequest, codeBadParameter},
	}
	for _, s := range steps {
		resp, err := call(ctx, cfg, http.MethodPost, s.path, "", s.body)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if err := resp.expect(s.name, s.status, s.code); err != nil {
			return err
		}
	}
	return nil
}

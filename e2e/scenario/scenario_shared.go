package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	signupPath = "/api/v1/auth/signup"
	loginPath  = "/api/v1/auth/login"

	defaultPassword = "e2e-password-1"
)

// EchoResult is the body the echo backend returns.
type EchoResult struct {
	Instance string `json:"instance"`
	Subject  string `json:"subject"`
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// errorCode extracts error.code from a gateway or service error body; "" when absent.
func (r response) errorCode() string {
	var body struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(r.body, &body); err != nil || body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func (r response) expect(step string, status int, code string) error {
	if r.status != status || (code != "" && r.errorCode() != code) {
		return &StatusError{Step: step, Expected: status, Got: r.status, Code: r.errorCode(), Body: strings.TrimSpace(string(r.body))}
	}
	return nil
}

// call sends one request through the gateway. authorization is sent verbatim when non-empty.
func call(ctx context.Context, cfg *Config, method, path, authorization string, body any) (response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return response{}, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cfg.GatewayURL, "/")+path, reader)
	if err != nil {
		return response{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := cfg.httpClient().Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// uniqueEmail keeps scenarios independent of each other and of earlier runs.
func uniqueEmail(tag string) string {
	return "e2e-" + tag + "-" + uuid.NewString()[:8] + "@example.com"
}

// Signup creates an account and fails unless the auth service answers 200.
func Signup(ctx context.Context, cfg *Config, email, password string) error {
	resp, err := call(ctx, cfg, http.MethodPost, signupPath, "", map[string]string{
		"email":    email,
		"username": strings.SplitN(email, "@", 2)[0],
		"password": password,
	})
	if err != nil {
		return err
	}
	return resp.expect("signup", http.StatusOK, "")
}

// Login returns the token issued for email/password.
func Login(ctx context.Context, cfg *Config, email, password string) (string, error) {
	resp, err := call(ctx, cfg, http.MethodPost, loginPath, "", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	if err := resp.expect("login", http.StatusOK, ""); err != nil {
		return "", err
	}
	var out struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return "", fmt.Errorf("login: decode: %w", err)
	}
	if out.Token == "" || out.ExpiresIn <= 0 {
		return "", fmt.Errorf("login: empty token or expiresIn in %s", resp.body)
	}
	return out.Token, nil
}

// NewUser signs up a fresh account and logs it in.
func NewUser(ctx context.Context, cfg *Config, tag string) (email, token string, err error) {
	email = uniqueEmail(tag)
	if err := Signup(ctx, cfg, email, defaultPassword); err != nil {
		return "", "", err
	}
	token, err = Login(ctx, cfg, email, defaultPassword)
	return email, token, err
}

// Echo calls the echo route with the token.
func Echo(ctx context.Context, cfg *Config, token string) (EchoResult, error) {
	resp, err := call(ctx, cfg, http.MethodGet, cfg.EchoPath, "Bearer "+token, nil)
	if err != nil {
		return EchoResult{}, err
	}
	if err := resp.expect("echo", http.StatusOK, ""); err != nil {
		return EchoResult{}, err
	}
	var out EchoResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return EchoResult{}, fmt.Errorf("echo: decode: %w", err)
	}
	return out, nil
}

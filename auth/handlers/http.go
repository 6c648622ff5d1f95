// Package handlers is the HTTP surface of the auth service.
package handlers

import (
	"net/http"

	"edgemesh/auth/interfaces"
	"edgemesh/helpers"
	"edgemesh/myerror"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// HTTPServer serves signup and login over an interfaces.Authenticator.
type HTTPServer struct {
	auth   interfaces.Authenticator
	logger log.Logger
}

// NewHTTPServer creates a new HTTPServer. Panics on nil auth or logger.
func NewHTTPServer(auth interfaces.Authenticator, logger log.Logger) *HTTPServer {
	logger = helpers.NilPanic(logger, "handlers.http.go: logger is required")
	return &HTTPServer{
		auth:   helpers.NilPanic(auth, "handlers.http.go: auth is required"),
		logger: log.WithPrefix(logger, "component", "HTTPServer"),
	}
}

// Signup (POST /api/v1/auth/signup) creates a USER account. 400 on a bad body, 409 when the email
// is taken.
func (h *HTTPServer) Signup(ectx echo.Context) error {
	var req SignupRequest
	if err := ectx.Bind(&req); err != nil {
		return myerror.NewBadParameterError("invalid request body", err)
	}
	user, err := h.auth.Signup(ectx.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}
	return ectx.JSON(http.StatusOK, SignupResponse{
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Login (POST /api/v1/auth/login) exchanges credentials for a token. 401 invalid_user_or_password
// on wrong credentials.
func (h *HTTPServer) Login(ectx echo.Context) error {
	var req LoginRequest
	if err := ectx.Bind(&req); err != nil {
		return myerror.NewBadParameterError("invalid request body", err)
	}
	issued, err := h.auth.Login(ectx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ectx.JSON(http.StatusOK, LoginResponse{
		Token:     issued.Raw,
		ExpiresIn: h.auth.TokenTTL().Milliseconds(),
	})
}

// Health (GET /health) reports process liveness.
func (h *HTTPServer) Health(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, map[string]string{"status": "UP"})
}

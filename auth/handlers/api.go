package handlers

import "github.com/labstack/echo/v4"

// SignupRequest is the body of POST /api/v1/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupResponse never carries the password hash.
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token; ExpiresIn is the token lifetime in milliseconds.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the auth routes. loginMiddleware is applied to the login route only.
func RegisterHandlers(router EchoRouter, server *HTTPServer, loginMiddleware ...echo.MiddlewareFunc) {
	router.POST("/api/v1/auth/signup", server.Signup)
	router.POST("/api/v1/auth/login", server.Login, loginMiddleware...)
	router.GET("/health", server.Health)
}

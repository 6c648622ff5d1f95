// Package domain holds the auth service's user record.
package domain

import "errors"

// Role is the authorization role stored with a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	// ErrUserNotFound is returned by a UserStore when no user has the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by a UserStore when the email is already taken.
	ErrUserExists = errors.New("user already exists")
)

// User is one account. Email is the unique key and becomes the token subject; the password is only
// kept as a bcrypt hash.
type User struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// Package auth issues and verifies the JWTs used by the HTTP API and
// manages user registration and login on top of contract.UserStore.
package auth

import (
	"errors"
)

// Sentinel errors returned by the service and token manager.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingFields      = errors.New("missing required fields")
)

package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Covers both unknown email and password mismatch on login.
	// Never split: responses must not allow user enumeration
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNoCredential = errors.New("no credential provided")
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")

	// Account errors.
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors reported by the session lifecycle and the access guard.
	ErrMissingToken        = errors.New("token required")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshNotFound     = errors.New("refresh token not found")
	ErrTokenNotFound       = errors.New("token not found")
	ErrInvalidAccessToken  = errors.New("invalid access token")

	// Signer errors (invalid or malformed token, expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

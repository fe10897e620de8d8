// Package common defines shared sentinel errors and small helpers used across
// the country explorer client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password must not be empty")
)

// InvalidCredentialsMessage is the user-facing text reported by a failed login.
const InvalidCredentialsMessage = "Invalid username or password"

// Package common defines shared constants and sentinel errors used across
// QuizKeeper components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Crypto errors. Wrong password and tampered data are indistinguishable
	// and both surface as ErrAuthentication.
	ErrAuthentication = errors.New("authentication failed")
	ErrFormat         = errors.New("malformed record")

	// ErrUnsupportedVersion is returned for envelopes written by an unknown
	// format version. It also matches ErrFormat.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)

	// Generated content failed shape checks.
	ErrValidation = errors.New("validation error")

	// Underlying record store failed to read or write.
	ErrStorage = errors.New("storage error")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Vault lifecycle errors.
	ErrLocked           = errors.New("vault is locked")
	ErrVaultExists      = errors.New("vault already exists")
	ErrNoVault          = errors.New("vault not found")
	ErrPasswordRequired = errors.New("password required")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Quiz-specific errors.
	ErrQuizSubmitted = errors.New("quiz submitted, copy quiz to retry")
)

package models

import "errors"

var (
	// ErrBadInput is returned when request fields are missing, malformed or too short
	ErrBadInput = errors.New("bad input")
	// ErrConflict is returned when a username is already taken
	ErrConflict = errors.New("already exists")
	// ErrAuthenticationFailed is returned for an unknown username or a wrong password.
	// Both cases share this error so callers cannot tell them apart.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	// ErrNotFound is returned when a user record does not exist
	ErrNotFound = errors.New("not found")
)

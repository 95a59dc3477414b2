package models

import "errors"

var (
	// ErrValidation covers missing/malformed required fields and duplicate
	// display names; the store is never touched when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the update/delete target vanished.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is deliberately indistinct between an unknown
	// name and a wrong password.
	ErrInvalidCredentials = errors.New("invalid name or password")
)

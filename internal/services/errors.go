package services

import "errors"

// Service errors
var (
	// Snapshot errors
	ErrNoSnapshot = errors.New("no snapshot loaded")

	// Query errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnknownField        = errors.New("unknown or non-categorical field")
	ErrInvalidInput        = errors.New("invalid input")
)

package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrNotConfigured = errors.New("statistics database not configured")
	ErrInvalidLookup = errors.New("resolution outcome is required")
)

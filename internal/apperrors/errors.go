package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPositionNotFound indicates that a position with the given ID does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidPositionID indicates that a provided ID is not a positive integer.
	ErrInvalidPositionID = errors.New("position ID must be a positive integer")
)

// Quote provider errors. These are recovered locally by the aggregator and only
// surface on direct symbol lookups.
var (
	// ErrQuoteUnavailable indicates the quote provider failed for a symbol
	// (network error, timeout or malformed response).
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Store errors represent persistence failures. They are never masked: the
// operation that hit them aborts without a partial write.
var (
	// ErrStoreConflict indicates that an optimistic update kept losing to
	// concurrent writers and gave up after the configured number of attempts.
	ErrStoreConflict = errors.New("position store update conflict")

	// ErrStoreCorrupt indicates the persisted document could not be decoded
	// (bad JSON, or an encrypted document read with the wrong key).
	ErrStoreCorrupt = errors.New("position store document is corrupt")
)

package repository

import "context"

// KVStore is a versioned key-value store holding opaque documents.
//
// Every successful write bumps the key's version. CompareAndSwap only writes
// when the stored version still equals expectedVersion, which lets callers
// run optimistic read-modify-write cycles. Version 0 means "absent".
type KVStore interface {
	// Get returns the value and version stored under key, or (nil, 0, nil)
	// when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, int64, error)

	// CompareAndSwap writes value if the current version equals expectedVersion.
	// It reports false, without error, when another writer got there first.
	CompareAndSwap(ctx context.Context, key string, value []byte, expectedVersion int64) (bool, error)

	// Put writes value unconditionally.
	Put(ctx context.Context, key string, value []byte) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

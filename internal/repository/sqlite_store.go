package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements KVStore on the kv_store table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore with the provided database connection.
// The kv_store table must exist (see database.Migrate).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the document and version stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	query := `
		SELECT value, version
		FROM kv_store
		WHERE key = ?
	`
	var value []byte
	var version int64

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query kv_store: %w", err)
	}

	return value, version, nil
}

// CompareAndSwap writes value when the stored version equals expectedVersion.
// An expectedVersion of 0 only succeeds if the key does not exist yet.
func (s *SQLiteStore) CompareAndSwap(ctx context.Context, key string, value []byte, expectedVersion int64) (bool, error) {
	var (
		result sql.Result
		err    error
	)

	if expectedVersion == 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO kv_store (key, value, version, updated_at)
			VALUES (?, ?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO NOTHING
		`, key, value)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE kv_store
			SET value = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
			WHERE key = ? AND version = ?
		`, value, key, expectedVersion)
	}
	if err != nil {
		return false, fmt.Errorf("failed to write kv_store: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows == 1, nil
}

// Put writes value unconditionally and bumps the version.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, version, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = kv_store.version + 1,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write kv_store: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

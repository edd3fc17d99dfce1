package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/model"
)

// MutateFunc receives a private copy of the current position list and returns
// the list to persist. Returning an error aborts the update without writing.
type MutateFunc func(positions []model.Position) ([]model.Position, error)

// PositionRepository persists the whole position list as one document under a
// fixed key. There is no field-level persistence: every write replaces the list.
type PositionRepository struct {
	kv         KVStore
	codec      *Codec
	key        string
	maxRetries int
}

// NewPositionRepository creates a new PositionRepository.
//
// Parameters:
//   - kv: Backend holding the serialized list
//   - codec: Serializer for the document (plain or encrypted JSON)
//   - key: Fixed key the list is stored under
//   - maxRetries: Optimistic update attempts before ErrStoreConflict
func NewPositionRepository(kv KVStore, codec *Codec, key string, maxRetries int) *PositionRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &PositionRepository{
		kv:         kv,
		codec:      codec,
		key:        key,
		maxRetries: maxRetries,
	}
}

// Load returns the stored position list, or an empty list if nothing has been
// stored yet.
func (r *PositionRepository) Load(ctx context.Context) ([]model.Position, error) {
	positions, _, err := r.load(ctx)
	return positions, err
}

// Save replaces the stored list unconditionally (last writer wins).
// Mutations that depend on the current list should use Update instead.
func (r *PositionRepository) Save(ctx context.Context, positions []model.Position) error {
	data, err := r.codec.Encode(positions)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save positions: %w", err)
	}
	return nil
}

// Update performs a versioned read-modify-write of the position list.
//
// The list is loaded together with its version, handed to mutate, and written
// back only if no other writer changed it in between. On a conflict the cycle
// is retried with the fresh list, up to maxRetries attempts.
//
// Returns:
//   - []model.Position: The list as persisted
//   - error: The error returned by mutate, a store error, or
//     apperrors.ErrStoreConflict when all attempts lost the race
func (r *PositionRepository) Update(ctx context.Context, mutate MutateFunc) ([]model.Position, error) {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		current, version, err := r.load(ctx)
		if err != nil {
			return nil, err
		}

		next, err := mutate(slices.Clone(current))
		if err != nil {
			return nil, err
		}

		data, err := r.codec.Encode(next)
		if err != nil {
			return nil, err
		}

		ok, err := r.kv.CompareAndSwap(ctx, r.key, data, version)
		if err != nil {
			return nil, fmt.Errorf("failed to save positions: %w", err)
		}
		if ok {
			if next == nil {
				next = []model.Position{}
			}
			return next, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return nil, apperrors.ErrStoreConflict
}

// Ping checks that the backing store is reachable.
func (r *PositionRepository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

func (r *PositionRepository) load(ctx context.Context) ([]model.Position, int64, error) {
	data, version, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load positions: %w", err)
	}

	positions, err := r.codec.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return positions, version, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "value"
	redisVersionField = "version"
)

var errVersionMismatch = errors.New("version mismatch")

// RedisStore implements KVStore on Redis. Each key is a hash with a value and
// a version field; CompareAndSwap uses WATCH/MULTI so concurrent writers from
// other processes are detected as well.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new RedisStore on an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the document and version stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, 0, nil
	}

	version, err := strconv.ParseInt(fields[redisVersionField], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid version for %s: %w", key, err)
	}

	return []byte(fields[redisValueField]), version, nil
}

// CompareAndSwap writes value when the stored version equals expectedVersion.
func (s *RedisStore) CompareAndSwap(ctx context.Context, key string, value []byte, expectedVersion int64) (bool, error) {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, redisVersionField).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}

		if current != expectedVersion {
			return errVersionMismatch
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, redisValueField, value, redisVersionField, current+1)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, errVersionMismatch) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return true, nil
}

// Put writes value unconditionally and bumps the version.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, redisValueField, value)
		pipe.HIncrBy(ctx, key, redisVersionField, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

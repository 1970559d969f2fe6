package repository

import (
	"context"
	"errors"
	"mdstore/internal/kv"

	"go.uber.org/zap"
)

// loadCollection reads a JSON array stored at key. A missing key, a null
// value, or a value that does not decode all yield an empty, non-nil slice;
// only store failures are returned.
func loadCollection[T any](ctx context.Context, store kv.Store, key string, logger *zap.Logger) ([]T, error) {
	var items []T
	found, err := kv.GetJSON(ctx, store, key, &items)
	var decodeErr *kv.DecodeError
	if errors.As(err, &decodeErr) {
		logger.Warn("Discarding malformed collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return []T{}, nil
	}
	return items, nil
}

// loadValue reads a single JSON value. It reports false when the key is
// absent, null, or malformed.
func loadValue[T any](ctx context.Context, store kv.Store, key string, logger *zap.Logger) (*T, error) {
	var value *T
	_, err := kv.GetJSON(ctx, store, key, &value)
	var decodeErr *kv.DecodeError
	if errors.As(err, &decodeErr) {
		logger.Warn("Discarding malformed value", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

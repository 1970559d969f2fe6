package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string-keyed durable store holding JSON-encoded values. Writes to
// a key replace the previous value; there is no locking across processes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value stored at key into dest. It reports false when the
// key is absent. A value that does not decode is returned as an error so the
// caller can choose its own fallback.
func GetJSON(ctx context.Context, s Store, key string, dest interface{}) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return true, &DecodeError{Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes value and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}

// DecodeError reports a stored value that is not valid JSON for its target.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return "kv: malformed value at " + e.Key + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

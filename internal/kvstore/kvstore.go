// Package kvstore persists JSON values under string keys.
//
// The KeyValueStore seam stands in for browser-style local storage: a
// flat string-to-string map that may be missing or full. Read and Write
// never surface storage failures to callers; they log a warning and fall
// back to the default or in-memory value instead.
package kvstore

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/logging"
)

// ErrQuotaExceeded is returned by a backend that has no room for a value.
var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// KeyValueStore is a flat string store. A nil KeyValueStore is treated
// as unavailable.
type KeyValueStore interface {
	// Get returns the stored string and whether the key exists.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Read returns the value stored under key, or initial when the store is
// unavailable, the key is absent, or the stored JSON cannot be decoded.
func Read[T any](store KeyValueStore, key string, initial T, logger *zap.Logger) T {
	if store == nil {
		return initial
	}
	logger = logging.OrNop(logger)
	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Warn("error reading stored value", zap.String("key", key), zap.Error(err))
		return initial
	}
	if !ok {
		return initial
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logger.Warn("error decoding stored value", zap.String("key", key), zap.Error(err))
		return initial
	}
	return value
}

// Write encodes value as JSON and stores it under key. It reports whether
// the value was persisted; failures are logged, never returned.
func Write[T any](store KeyValueStore, key string, value T, logger *zap.Logger) bool {
	if store == nil {
		return false
	}
	logger = logging.OrNop(logger)
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("error encoding value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := store.Set(key, string(data)); err != nil {
		logger.Warn("error storing value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes key, logging instead of returning failures.
func Remove(store KeyValueStore, key string, logger *zap.Logger) bool {
	if store == nil {
		return false
	}
	if err := store.Delete(key); err != nil {
		logging.OrNop(logger).Warn("error removing value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

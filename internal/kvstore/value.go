package kvstore

import (
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/logging"
)

// Value holds the in-memory state of one stored key.
//
// Set and Update change memory first and then try to persist; a failed
// write is logged and memory keeps the new value.
type Value[T any] struct {
	mu         sync.Mutex
	store      KeyValueStore
	key        string
	initial    T
	current    T
	reconciled bool
	logger     *zap.Logger
}

// NewValue binds key and synchronously loads its current value, or
// initial when nothing usable is stored.
func NewValue[T any](store KeyValueStore, key string, initial T, logger *zap.Logger) *Value[T] {
	logger = logging.OrNop(logger)
	return &Value[T]{
		store:   store,
		key:     key,
		initial: initial,
		current: Read(store, key, initial, logger),
		logger:  logger,
	}
}

// Key returns the bound key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the in-memory value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the value and persists it.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = value
	Write(v.store, v.key, value, v.logger)
}

// Update replaces the value with fn applied to the in-memory value.
func (v *Value[T]) Update(fn func(prev T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	Write(v.store, v.key, v.current, v.logger)
	return v.current
}

// Reconcile re-reads the store once after the first load. It is meant
// for environments where the store becomes available only after the
// initial value was computed. Later calls do nothing.
func (v *Value[T]) Reconcile() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.reconciled {
		return v.current
	}
	v.reconciled = true
	v.current = Read(v.store, v.key, v.initial, v.logger)
	return v.current
}

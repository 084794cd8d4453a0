// Package cache persists the most recent known-good scheme batch so the
// matcher can serve results while the backend is unreachable. There is a
// single cache slot: no versioning, no TTL, one generation at a time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/api/middleware"
	"agrischeme-api-go/internal/models"
)

// SlotKey is the fixed key the last successful fetch is stored under.
const SlotKey = "schemes:last_fetch"

// ErrNotFound is returned by a Store when the slot has never been written
// or was cleared.
var ErrNotFound = errors.New("cache entry not found")

// CacheError wraps a storage-level failure so callers that want to observe
// swallowed errors (tests, logs) can distinguish them.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("cache: %s: %v", e.Op, e.Err) }
func (e *CacheError) Unwrap() error { return e.Err }

// Store is the durable backend behind the scheme cache. Implementations
// must serialize concurrent access to the fixed key themselves (both the
// SQLite and Redis backends do).
type Store interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// SchemeCache applies the cache contract on top of a Store: writes never
// fail the caller, reads degrade to an empty batch. Swallowed failures are
// logged and counted so they stay observable.
type SchemeCache struct {
	store  Store
	logger *zap.Logger
}

// New creates a scheme cache over the given store.
func New(store Store, logger *zap.Logger) *SchemeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemeCache{
		store:  store,
		logger: logger,
	}
}

// Save serializes the batch and overwrites the cache slot. Storage errors
// are swallowed: a failed cache write must never block the primary
// request/response flow.
func (c *SchemeCache) Save(ctx context.Context, schemes []models.SchemeRecord) {
	payload, err := json.Marshal(schemes)
	if err != nil {
		c.logger.Warn("cache write skipped: encode failed", zap.Error(err))
		middleware.CacheWritesTotal.WithLabelValues("encode_error").Inc()
		return
	}

	if err := c.store.Save(ctx, SlotKey, payload); err != nil {
		c.logger.Warn("cache write failed",
			zap.Error(&CacheError{Op: "save", Err: err}),
			zap.Int("schemes", len(schemes)))
		middleware.CacheWritesTotal.WithLabelValues("error").Inc()
		return
	}

	middleware.CacheWritesTotal.WithLabelValues("ok").Inc()
	c.logger.Debug("cache updated", zap.Int("schemes", len(schemes)))
}

// Load reads the cache slot. A missing or corrupt entry yields an empty
// batch — "nothing cached yet" is indistinguishable from "cache empty" by
// design.
func (c *SchemeCache) Load(ctx context.Context) []models.SchemeRecord {
	payload, err := c.store.Load(ctx, SlotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("cache read failed", zap.Error(&CacheError{Op: "load", Err: err}))
		}
		return []models.SchemeRecord{}
	}

	var schemes []models.SchemeRecord
	if err := json.Unmarshal(payload, &schemes); err != nil {
		c.logger.Warn("cache entry corrupt, returning empty batch", zap.Error(err))
		return []models.SchemeRecord{}
	}
	if schemes == nil {
		schemes = []models.SchemeRecord{}
	}
	return schemes
}

// Clear erases the cache slot.
func (c *SchemeCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx, SlotKey); err != nil {
		return &CacheError{Op: "clear", Err: err}
	}
	return nil
}

// Ping reports whether the underlying store is reachable.
func (c *SchemeCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

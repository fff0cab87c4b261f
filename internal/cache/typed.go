// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache stores JSON-encoded values of type T in a Cacher.
type TypedCache[T any] struct {
	cache      Cacher
	defaultTTL time.Duration
}

// NewTypedCache creates a TypedCache over c.
func NewTypedCache[T any](c Cacher, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: c, defaultTTL: defaultTTL}
}

// Get returns the cached value and true, or false on a miss or a value that
// no longer decodes.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set stores value under key with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetOrSet returns the cached value or computes, stores and returns it.
// Errors from fn are returned and nothing is cached.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	// A failed write only costs a recomputation next time.
	_ = c.Set(ctx, key, value)
	return value, nil
}

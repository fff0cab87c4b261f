// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	RedisURL   string // empty selects the memory backend
	Prefix     string
	DefaultTTL time.Duration
	MaxSize    int
}

// New creates the configured backend. If Redis is configured but cannot be
// reached, it logs a warning and falls back to memory. The returned string
// names the backend in use.
func New(cfg Config, logger *slog.Logger) (Cacher, string) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return rc, BackendRedis
		}
		logger.Warn("redis cache unavailable, using memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	}), BackendMemory
}

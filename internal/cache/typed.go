// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Remember returns the JSON-decoded value cached under key, or calls load,
// caches its result and returns it. Cache failures are logged and never
// fail the request; a nil cache disables caching.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if data, err := c.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return value, nil
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate removes every key under the given prefixes, logging failures.
func Invalidate(ctx context.Context, c Cache, prefixes ...string) {
	if c == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.DeleteByPrefix(ctx, p); err != nil {
			slog.Warn("cache invalidation failed", "prefix", p, "error", err)
		}
	}
}

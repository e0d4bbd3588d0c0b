// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"radic/internal/models"
)

const (
	// designKeyPrefix is the Valkey key prefix for cached design records.
	designKeyPrefix = "design:"

	// DefaultDesignTTL is how long a stored design stays cached.
	DefaultDesignTTL = 5 * time.Minute
)

// DesignCache is a read-through cache of stored design records in Valkey.
// Cache errors are logged and treated as misses; the database stays the
// source of truth.
type DesignCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDesignCache creates a design cache backed by the given Valkey client.
func NewDesignCache(client *redis.Client, ttl time.Duration) *DesignCache {
	if ttl == 0 {
		ttl = DefaultDesignTTL
	}
	return &DesignCache{client: client, ttl: ttl}
}

// DesignKey returns the cache key for a design id.
func DesignKey(id uuid.UUID) string {
	return designKeyPrefix + id.String()
}

// Get returns the cached record for id. The caller must still check
// ownership.
func (dc *DesignCache) Get(ctx context.Context, id uuid.UUID) (*models.DesignRecord, bool) {
	val, err := dc.client.Get(ctx, DesignKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("design cache get error", "id", id, "error", err)
		return nil, false
	}

	var rec models.DesignRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		slog.Warn("design cache decode error", "id", id, "error", err)
		dc.Invalidate(ctx, id)
		return nil, false
	}
	slog.Debug("design cache hit", "id", id)
	return &rec, true
}

// Set stores rec with the configured TTL.
func (dc *DesignCache) Set(ctx context.Context, rec *models.DesignRecord) {
	val, err := json.Marshal(rec)
	if err != nil {
		slog.Warn("design cache encode error", "id", rec.ID, "error", err)
		return
	}
	if err := dc.client.Set(ctx, DesignKey(rec.ID), val, dc.ttl).Err(); err != nil {
		slog.Warn("design cache set error", "id", rec.ID, "error", err)
	}
}

// Invalidate removes a design from the cache.
func (dc *DesignCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := dc.client.Del(ctx, DesignKey(id)).Err(); err != nil {
		slog.Warn("design cache invalidate error", "id", id, "error", err)
	}
	slog.Debug("design cache invalidated", "id", id)
}

// InvalidateAll removes all cached designs by scanning for the prefix.
// Used after bulk changes such as a brand deletion.
func (dc *DesignCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := dc.client.Scan(ctx, cursor, designKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("design cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := dc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("design cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("design cache cleared", "deleted", deleted)
	}
}

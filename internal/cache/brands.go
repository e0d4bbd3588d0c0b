// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"radic/internal/models"
)

// BrandFinder loads a brand for its owner; nil, nil means not found.
type BrandFinder interface {
	FindByID(id uuid.UUID, ownerID string) (*models.Brand, error)
}

const (
	DefaultBrandCacheSize = 256
	DefaultBrandTTL       = 2 * time.Minute
)

// BrandCache is an in-process read-through cache in front of a BrandFinder.
// Generation requests look up the same brand kit repeatedly; this keeps
// those lookups off the database. Misses are not cached.
type BrandCache struct {
	finder BrandFinder
	lru    *expirable.LRU[string, *models.Brand]
}

// NewBrandCache creates a brand cache. Zero size or ttl take defaults.
func NewBrandCache(finder BrandFinder, size int, ttl time.Duration) *BrandCache {
	if size <= 0 {
		size = DefaultBrandCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultBrandTTL
	}
	return &BrandCache{
		finder: finder,
		lru:    expirable.NewLRU[string, *models.Brand](size, nil, ttl),
	}
}

func brandKey(id uuid.UUID, ownerID string) string {
	return ownerID + ":" + id.String()
}

// Get returns the owner's brand, loading it on a miss.
func (c *BrandCache) Get(id uuid.UUID, ownerID string) (*models.Brand, error) {
	key := brandKey(id, ownerID)
	if b, ok := c.lru.Get(key); ok {
		return b, nil
	}

	b, err := c.finder.FindByID(id, ownerID)
	if err != nil || b == nil {
		return b, err
	}
	c.lru.Add(key, b)
	return b, nil
}

// Invalidate drops a brand after it is updated or deleted.
func (c *BrandCache) Invalidate(id uuid.UUID, ownerID string) {
	c.lru.Remove(brandKey(id, ownerID))
}

// Len returns the number of cached brands.
func (c *BrandCache) Len() int {
	return c.lru.Len()
}

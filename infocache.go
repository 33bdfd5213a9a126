package gribjump

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// InfoCacheKey identifies one GribInfo within a GRIB file: the file
// path and the zero-based message index within it.
type InfoCacheKey struct {
	Path         string
	MessageIndex int
}

// InfoCache is a bounded, in-memory cache of harvested GribInfo
// records keyed by file and message index, so repeated extractions
// against the same field skip re-harvesting its header.
type InfoCache struct {
	lru *lru.Cache[InfoCacheKey, *GribInfo]
}

// NewInfoCache builds a cache holding at most capacity entries,
// evicting least-recently-used records once full.
func NewInfoCache(capacity int) (*InfoCache, error) {
	c, err := lru.New[InfoCacheKey, *GribInfo](capacity)
	if err != nil {
		return nil, invalidArgf("infocache: %v", err)
	}
	return &InfoCache{lru: c}, nil
}

// Get returns the cached GribInfo for key, if present.
func (c *InfoCache) Get(key InfoCacheKey) (*GribInfo, bool) {
	return c.lru.Get(key)
}

// Put stores info under key, possibly evicting the least-recently-used
// entry.
func (c *InfoCache) Put(key InfoCacheKey, info *GribInfo) {
	c.lru.Add(key, info)
}

// Len reports the number of entries currently cached.
func (c *InfoCache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *InfoCache) Purge() {
	c.lru.Purge()
}

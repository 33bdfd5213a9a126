package gribjump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCachePutGet(t *testing.T) {
	c, err := NewInfoCache(2)
	require.NoError(t, err)

	g := NewGribInfo()
	require.NoError(t, g.Update(noBitmapSource()))

	key := InfoCacheKey{Path: "/data/x.grib2", MessageIndex: 0}
	c.Put(key, g)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, g, got)
}

func TestInfoCacheMiss(t *testing.T) {
	c, err := NewInfoCache(2)
	require.NoError(t, err)
	_, ok := c.Get(InfoCacheKey{Path: "nope", MessageIndex: 3})
	assert.False(t, ok)
}

func TestInfoCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewInfoCache(2)
	require.NoError(t, err)

	g0 := NewGribInfo()
	g1 := NewGribInfo()
	g2 := NewGribInfo()

	k0 := InfoCacheKey{Path: "a", MessageIndex: 0}
	k1 := InfoCacheKey{Path: "a", MessageIndex: 1}
	k2 := InfoCacheKey{Path: "a", MessageIndex: 2}

	c.Put(k0, g0)
	c.Put(k1, g1)
	c.Put(k2, g2) // evicts k0, the least recently used

	_, ok := c.Get(k0)
	assert.False(t, ok)
	_, ok = c.Get(k1)
	assert.True(t, ok)
	_, ok = c.Get(k2)
	assert.True(t, ok)
}

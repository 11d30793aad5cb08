package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUint(t *testing.T) {
	assert.Equal(t, uint(42), ParseUint("42"))
	assert.Zero(t, ParseUint("not-a-number"))
	assert.Zero(t, ParseUint(""))
	assert.Zero(t, ParseUint("-5"))
}

func TestNilCacheIsAMiss(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	var dest struct{ N int }
	assert.False(t, cache.Get(ctx, "key", &dest))

	// Writes and invalidations on a nil cache are no-ops.
	cache.Set(ctx, "key", fiberMapStub{"n": 1})
	cache.Invalidate(ctx, "key")
}

type fiberMapStub map[string]interface{}

func TestNewCacheNilClient(t *testing.T) {
	assert.Nil(t, NewCache(nil, 0))
}

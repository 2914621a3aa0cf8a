package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texarc/texarc/internal/cache"
)

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "blz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLookupMissThenHit(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	raw := []byte("raw payload bytes")
	hash := cache.HashPayload(raw)

	_, ok, err := c.Lookup(ctx, "menu_tex", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	compressed := []byte("compressed bytes")
	require.NoError(t, c.Store(ctx, "menu_tex", hash, compressed))

	got, ok, err := c.Lookup(ctx, "menu_tex", hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, compressed, got)
}

func TestLookupStaleHashMisses(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	oldHash := cache.HashPayload([]byte("old contents"))
	require.NoError(t, c.Store(ctx, "font_tex", oldHash, []byte("old compressed")))

	// The resource was edited; its hash no longer matches.
	newHash := cache.HashPayload([]byte("new contents"))
	_, ok, err := c.Lookup(ctx, "font_tex", newHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreUpserts(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	first := cache.HashPayload([]byte("v1"))
	require.NoError(t, c.Store(ctx, "bg_tex", first, []byte("c1")))

	second := cache.HashPayload([]byte("v2"))
	require.NoError(t, c.Store(ctx, "bg_tex", second, []byte("c2")))

	got, ok, err := c.Lookup(ctx, "bg_tex", second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("c2"), got)
}

func TestClosedCacheErrors(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "blz.db"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, _, err = c.Lookup(context.Background(), "x", []byte{1})
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}

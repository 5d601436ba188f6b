package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("k", []byte("value"))
	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("value"), got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_EmptyValueIsCached(t *testing.T) {
	c := NewMemoryCache()
	c.Set("empty", []byte{})

	got, found := c.Get("empty")
	require.True(t, found, "empty content must still count as a cache hit")
	assert.Empty(t, got)
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache()
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, found := c.Get("a")
	assert.False(t, found)
}

func TestContentKey(t *testing.T) {
	assert.Equal(t, ContentKey("repo/src/a.cpp"), ContentKey("repo/./src/../src/a.cpp"))
	assert.NotEqual(t, ContentKey("repo/src/a.cpp"), ContentKey("repo/src/b.cpp"))
}

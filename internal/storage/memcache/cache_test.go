package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New()

	c.Set("accounts:2025-06-02", []string{"a", "b"}, time.Minute)

	v, ok := c.Get("accounts:2025-06-02")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	_, ok = c.Get("accounts:2025-06-03")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New()

	c.Set("k", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry dropped on read")
}

func TestCacheClear(t *testing.T) {
	c := New()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.ClearAll()
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "changes:2025-06-02", Key("changes", "2025-06-02"))
}

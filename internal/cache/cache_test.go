package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Query string   `json:"query"`
	Hits  []string `json:"hits"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "search:KJV:god", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := payload{Query: "god", Hits: []string{"0:0:0"}}
	require.NoError(t, c.Set(ctx, "search:KJV:god", want, time.Minute))

	found, err = c.Get(ctx, "search:KJV:god", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", "value", time.Minute))
	require.NoError(t, c.Set(ctx, "forever", "value", 0))

	now = now.Add(2 * time.Minute)

	var got string
	found, err := c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get(ctx, "forever", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "search:KJV:god", 1, 0))
	require.NoError(t, c.Set(ctx, "search:KJV:light", 2, 0))
	require.NoError(t, c.Set(ctx, "search:ESV:god", 3, 0))

	require.NoError(t, c.DeletePrefix(ctx, "search:KJV:"))
	assert.Equal(t, 1, c.Len())

	var got int
	found, err := c.Get(ctx, "search:ESV:god", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"joshua:search:KJV:", "joshua:search:KJV:"},
		{"joshua:search:K*:", `joshua:search:K\*:`},
		{"joshua:search:K?V:", `joshua:search:K\?V:`},
		{"joshua:search:[KJV]:", `joshua:search:\[KJV\]:`},
		{`joshua:search:a\b:`, `joshua:search:a\\b:`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeGlob(tt.in), tt.in)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocatch/internal/model"
)

func newTestListingCache(t *testing.T, ttl time.Duration) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewListingCache(client, ttl), mr
}

func TestListingCache_RoundTrip(t *testing.T) {
	c, _ := newTestListingCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	in := []model.Cache{
		{ID: "a", Latitude: 44.8, Longitude: -0.6, Difficulty: 2, CreatorID: 1, Creator: model.User{ID: 1, Username: "alice", Password: "pw1"}},
		{ID: "b", Latitude: 1, Longitude: 2, CreatorID: 2},
	}
	require.NoError(t, c.SetListing(ctx, in))

	out, ok, err := c.GetListing(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "alice", out[0].Creator.Username)
	assert.Empty(t, out[0].Creator.Password, "password must never be serialised")
	assert.Equal(t, uint(2), out[1].CreatorID)
}

func TestListingCache_EmptyListingIsAHit(t *testing.T) {
	c, _ := newTestListingCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetListing(ctx, []model.Cache{}))

	out, ok, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestListingCache_InvalidateAndExpiry(t *testing.T) {
	c, mr := newTestListingCache(t, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, c.SetListing(ctx, []model.Cache{{ID: "a"}}))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetListing(ctx, []model.Cache{{ID: "a"}}))
	mr.FastForward(11 * time.Second)
	_, ok, err = c.GetListing(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListingCache_CorruptPayload(t *testing.T) {
	c, mr := newTestListingCache(t, time.Minute)
	require.NoError(t, mr.Set(listingKey, "{not json"))

	_, ok, err := c.GetListing(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

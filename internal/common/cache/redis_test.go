package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Addr = mr.Addr()
	c, err := NewRedisCacheWithConfig(cfg)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Del(ctx))
}

func TestNewRedisCacheValidation(t *testing.T) {
	_, err := NewRedisCacheWithConfig(nil)
	assert.Error(t, err)
	_, err = NewRedisCacheWithConfig(&RedisConfig{})
	assert.Error(t, err)
	_, err = NewRedisCacheWithConfig(&RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	assert.Error(t, err)
}

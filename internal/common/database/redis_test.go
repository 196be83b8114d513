package database

import (
	"context"
	"testing"
	"time"

	"unit-converter-skill/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Claim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	first, err := client.Claim(ctx, "skill:request:r-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := client.Claim(ctx, "skill:request:r-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	assert.True(t, mr.Exists("skill:request:r-1"))
	assert.Equal(t, time.Minute, mr.TTL("skill:request:r-1"))

	mr.FastForward(2 * time.Minute)
	again, err := client.Claim(ctx, "skill:request:r-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisClient_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := client.Claim(context.Background(), "skill:request:r-2", time.Minute)
	assert.Error(t, err)
	assert.Error(t, client.Ping(context.Background()))
}

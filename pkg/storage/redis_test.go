package storage

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientUnconfigured(t *testing.T) {
	client, err := NewRedisClient(DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, client, "no redis URL means no client")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.RedisURL = mr.Addr()

	client, err := NewRedisClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, client.Ping(t.Context()).Err())
}

func TestNewRedisClientURLForm(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.RedisURL = "redis://" + mr.Addr() + "/2"

	client, err := NewRedisClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, client.Ping(t.Context()).Err())
}

func TestNewRedisClientUnreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "127.0.0.1:1"
	cfg.RedisMaxRetries = 0

	client, err := NewRedisClient(cfg)
	assert.Error(t, err)
	assert.Nil(t, client)
}

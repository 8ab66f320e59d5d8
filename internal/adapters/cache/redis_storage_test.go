package cache

import (
	"testing"
	"time"

	"debo-loans/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := NewRedisClient(config.RedisConfig{Addr: mr.Addr()})
	require.NotNil(t, client)

	s := NewRedisStorage(client, "limiter:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestNewRedisClientFallsBack(t *testing.T) {
	assert.Nil(t, NewRedisClient(config.RedisConfig{}))
	assert.Nil(t, NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"}))
}

func TestRedisStorageGetSetDelete(t *testing.T) {
	s, mr := newTestStorage(t)

	val, err := s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("10.0.0.1", []byte("3"), time.Minute))
	assert.True(t, mr.Exists("limiter:10.0.0.1"))
	assert.False(t, mr.Exists("10.0.0.1"))

	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("10.0.0.1"))
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorageExpiry(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("10.0.0.2", []byte("1"), time.Minute))
	mr.FastForward(2 * time.Minute)

	val, err := s.Get("10.0.0.2")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorageIgnoresEmptyInput(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("", []byte("1"), time.Minute))
	require.NoError(t, s.Set("10.0.0.3", nil, time.Minute))
	assert.Empty(t, mr.Keys())

	val, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.NoError(t, s.Delete(""))
}

func TestRedisStorageResetKeepsForeignKeys(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("session:42", "keep"))

	require.NoError(t, s.Reset())
	assert.Equal(t, []string{"session:42"}, mr.Keys())
}

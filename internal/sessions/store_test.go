package sessions

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	id, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, id, 32)

	userID, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)

	require.NoError(t, store.Destroy(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Destroy(ctx, "never-existed"))
}

func TestMemoryStoreIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := store.Create(ctx, 1)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Millisecond)

	id, err := store.Create(ctx, 7)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = NewRedisStore(ctx, RedisOptions{Addr: addr}, time.Hour, logger)
	assert.Error(t, err)
}

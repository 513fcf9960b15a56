package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	now := time.Now()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "token-a", time.Minute))
	require.NoError(t, r.Revoke(ctx, "token-b", 0))

	ok, _ := r.IsRevoked(ctx, "token-a")
	assert.True(t, ok)
	ok, _ = r.IsRevoked(ctx, "token-b")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = r.IsRevoked(ctx, "token-a")
	assert.False(t, ok)
}

func TestLocalLockerSerialises(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "like:video:1:2")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.locks)
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisAgainstServer(t *testing.T) {
	addr := os.Getenv("VIDEOTUBE_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("VIDEOTUBE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	r := NewRedisRevoker(client)
	require.NoError(t, r.Revoke(ctx, "it-token", time.Second))
	ok, err := r.IsRevoked(ctx, "it-token")
	require.NoError(t, err)
	assert.True(t, ok)

	l := NewRedisLocker(client, time.Second)
	unlock, err := l.Lock(ctx, "it-lock")
	require.NoError(t, err)
	unlock()
}

package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanolez-eduai/internal/common/logger"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, store Store) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(store, 5*time.Second, logger.NewTestLogger(t))
	l.now = clock.now
	return l, clock
}

func TestLimiter_Window(t *testing.T) {
	l, clock := newTestLimiter(t, NewMemoryStore())
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "user-1"))
	clock.advance(time.Second)
	assert.False(t, l.Allow(ctx, "user-1"))
	assert.True(t, l.Allow(ctx, "user-2"), "users are limited independently")

	clock.advance(4 * time.Second)
	assert.True(t, l.Allow(ctx, "user-1"), "window elapsed")
	assert.False(t, l.Allow(ctx, "user-1"))
}

func TestLimiter_RejectedRequestDoesNotExtendWindow(t *testing.T) {
	l, clock := newTestLimiter(t, NewMemoryStore())
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "u"))
	clock.advance(4 * time.Second)
	require.False(t, l.Allow(ctx, "u"))
	clock.advance(1 * time.Second)
	assert.True(t, l.Allow(ctx, "u"))
}

type brokenStore struct{}

func (brokenStore) Acquire(context.Context, string, time.Time, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestLimiter_FailsOpen(t *testing.T) {
	l, _ := newTestLimiter(t, brokenStore{})

	assert.True(t, l.Allow(context.Background(), "u"))
	assert.True(t, l.Allow(context.Background(), "u"))
}

func TestLimiter_ZeroWindowAllowsAll(t *testing.T) {
	l := NewLimiter(brokenStore{}, 0, nil)

	assert.True(t, l.Allow(context.Background(), "u"))
	assert.True(t, l.Allow(context.Background(), "u"))
}

func TestLimiter_ConcurrentSameUser(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, "rl:"),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			l, _ := newTestLimiter(t, store)

			const callers = 20
			var (
				wg      sync.WaitGroup
				allowed atomic.Int32
				start   = make(chan struct{})
			)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					if l.Allow(context.Background(), "same-user") {
						allowed.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, int32(1), allowed.Load())
		})
	}
}

func TestRedisStore_WithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "ratelimit:")
	ctx := context.Background()
	at := time.UnixMilli(1735732800123)

	ok, err := store.Acquire(ctx, "u", at, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	val, err := mr.Get("ratelimit:u")
	require.NoError(t, err)
	assert.Equal(t, "1735732800123", val)
	assert.Equal(t, 5*time.Second, mr.TTL("ratelimit:u"))

	ok, err = store.Acquire(ctx, "u", at.Add(time.Second), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5*time.Second, mr.TTL("ratelimit:u"), "rejection keeps the window")

	mr.FastForward(6 * time.Second)
	ok, err = store.Acquire(ctx, "u", at.Add(6*time.Second), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_LimiterAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = clientA.Close(); _ = clientB.Close() })

	a, clock := newTestLimiter(t, NewRedisStore(clientA, "rl:"))
	b, _ := newTestLimiter(t, NewRedisStore(clientB, "rl:"))
	b.now = clock.now

	assert.True(t, a.Allow(context.Background(), "shared"))
	assert.False(t, b.Allow(context.Background(), "shared"))
}

func TestRedisStore_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, "rl:")

	mock.ExpectSetNX("rl:u", "1000", time.Second).SetErr(errors.New("readonly"))
	_, err := store.Acquire(context.Background(), "u", time.UnixMilli(1000), time.Second)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

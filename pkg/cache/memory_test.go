package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		_, err := c.Get(ctx, "sidebar:archive")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set, get and delete", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "count", 42, time.Minute))
		v, err := c.Get(ctx, "count")
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		require.NoError(t, c.Delete(ctx, "count"))
		_, err = c.Get(ctx, "count")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entries are gone", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0), cache.WithDefaultTTL(time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "forever", "v", -1))
		require.NoError(t, c.Set(ctx, "default", "v", 0))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "forever")
		require.NoError(t, err)
		_, err = c.Get(ctx, "default")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("janitor sweeps expired entries", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(5 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(time.Minute))
		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "a", 1, 0), cache.ErrClosed)
		require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)
	})
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("computes once and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[[]string](cache.WithCleanupInterval(0))
		defer c.Close()

		var calls atomic.Int32
		fn := func(context.Context) ([]string, time.Duration, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return []string{"Go", "Travel"}, time.Minute, nil
		}

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(ctx, c, "sidebar:categories", fn)
				assert.NoError(t, err)
				assert.Equal(t, []string{"Go", "Travel"}, v)
			}()
		}
		wg.Wait()

		v, err := cache.GetOrSet(ctx, c, "sidebar:categories", fn)
		require.NoError(t, err)
		assert.Len(t, v, 2)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		boom := errors.New("db down")
		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("same key in different caches does not collide", func(t *testing.T) {
		t.Parallel()

		ints := cache.NewMemory[int](cache.WithCleanupInterval(0))
		strs := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer ints.Close()
		defer strs.Close()

		i, err := cache.GetOrSet(ctx, ints, "shared", func(context.Context) (int, time.Duration, error) { return 7, 0, nil })
		require.NoError(t, err)
		s, err := cache.GetOrSet(ctx, strs, "shared", func(context.Context) (string, time.Duration, error) { return "seven", 0, nil })
		require.NoError(t, err)
		assert.Equal(t, 7, i)
		assert.Equal(t, "seven", s)
	})
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int](cache.WithCleanupInterval(0))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, cache.Invalidate(ctx, c, "a", "b", "missing"))
	assert.Zero(t, c.Len())

	require.NoError(t, c.Close())
	require.ErrorIs(t, cache.Invalidate(ctx, c, "a"), cache.ErrClosed)
}

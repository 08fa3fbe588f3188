package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		items := []int{5, 4, 3, 2, 1}
		results, err := Map(context.Background(), items, 3, func(ctx context.Context, n int) (int, error) {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return n * 2, nil
		})

		require.NoError(t, err)
		require.Len(t, results, 5)
		for i, r := range results {
			assert.Equal(t, i, r.Index)
			assert.Equal(t, items[i], r.Item)
			assert.Equal(t, items[i]*2, r.Value)
			assert.NoError(t, r.Err)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		results, err := Map(context.Background(), []int{}, 3, func(ctx context.Context, n int) (int, error) {
			return n, nil
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("per item errors", func(t *testing.T) {
		boom := errors.New("boom")
		results, err := Map(context.Background(), []int{1, 2, 3}, 2, func(ctx context.Context, n int) (int, error) {
			if n == 2 {
				return 0, boom
			}
			return n, nil
		})
		require.NoError(t, err)
		assert.NoError(t, results[0].Err)
		assert.ErrorIs(t, results[1].Err, boom)
		assert.NoError(t, results[2].Err)
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		var running, peak int32
		items := make([]int, 20)
		_, err := Map(context.Background(), items, 4, func(ctx context.Context, n int) (int, error) {
			cur := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return n, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
	})

	t.Run("non positive workers", func(t *testing.T) {
		results, err := Map(context.Background(), []int{1, 2}, 0, func(ctx context.Context, n int) (int, error) {
			return n, nil
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Map(ctx, []int{1, 2, 3}, 1, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 3)
	for _, r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	}
}

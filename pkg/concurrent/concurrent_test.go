package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	err := ForEach(context.Background(), items, 3, func(context.Context, int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestForEachReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := ForEach(context.Background(), []int{1, 2, 3, 4}, 1, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(4), "work after the failure is skipped")
}

func TestMapKeepsOrder(t *testing.T) {
	out, err := Map(context.Background(), []int{1, 2, 3, 4, 5}, 0, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return i * i, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, out)
}

func TestCollectRunsEverything(t *testing.T) {
	boom := errors.New("boom")
	errs := Collect(context.Background(), []string{"ok", "bad", "ok"}, 2, func(_ context.Context, s string) error {
		if s == "bad" {
			return boom
		}
		return nil
	})

	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
}

func TestForEachCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := ForEach(ctx, []int{1}, 1, func(context.Context, int) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rippleid/internal/cache"
)

func TestWindowLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l := NewWindowLimiter(cache.NewMemory("", time.Minute), "", 2, time.Minute)
	fixed := time.Date(2024, 5, 1, 12, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, int64(1-i), res.Remaining)
	}

	res, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, int64(3), res.CurrentHits)
	require.Greater(t, res.RetryAfter, time.Duration(0))

	// Otra IP tiene su propio contador.
	res, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// Ventana siguiente: contador nuevo.
	l.now = func() time.Time { return fixed.Add(time.Minute) }
	res, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestWindowLimiter_CounterError(t *testing.T) {
	_, err := NewWindowLimiter(failingCounter{}, "", 1, time.Minute).Allow(context.Background(), "k")
	require.Error(t, err)
}

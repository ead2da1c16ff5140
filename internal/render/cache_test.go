package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ByteCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewByteCache(client, time.Hour), srv
}

func TestGetOrRenderCachesBytes(t *testing.T) {
	cache, _ := newTestCache(t)
	updatedAt := time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("pdf-bytes"), nil
	}

	ctx := context.Background()
	first, err := cache.GetOrRender(ctx, 1, updatedAt, "a4", render)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), first)

	second, err := cache.GetOrRender(ctx, 1, updatedAt, "a4", render)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "second request must be served from cache")
}

func TestGetOrRenderKeyVariesByUpdateAndLayout(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("pdf"), nil
	}

	_, err := cache.GetOrRender(ctx, 1, base, "a4", render)
	require.NoError(t, err)
	_, err = cache.GetOrRender(ctx, 1, base, "thermal", render)
	require.NoError(t, err)
	_, err = cache.GetOrRender(ctx, 1, base.Add(time.Minute), "a4", render)
	require.NoError(t, err)
	require.Equal(t, 3, calls, "layout and updated_at must each produce a distinct key")
}

func TestGetOrRenderDoesNotCacheFailures(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	updatedAt := time.Now()

	boom := errors.New("render failed")
	_, err := cache.GetOrRender(ctx, 2, updatedAt, "a4", func() ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	out, err := cache.GetOrRender(ctx, 2, updatedAt, "a4", func() ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("recovered"), out)
}

func TestGetOrRenderSurvivesRedisOutage(t *testing.T) {
	cache, srv := newTestCache(t)
	srv.Close()

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("pdf"), nil
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		out, err := cache.GetOrRender(ctx, 3, time.Unix(100, 0), "a4", render)
		require.NoError(t, err)
		require.Equal(t, []byte("pdf"), out)
	}
	require.Equal(t, 2, calls, "cache outage degrades to rendering every request")
}

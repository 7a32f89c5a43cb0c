package productcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

func TestCachedRepositoryReadsThrough(t *testing.T) {
	next := &countingRepo{products: []catalog.Product{{ID: "p1"}}}
	repo := NewCachedRepository(next, NewMemoryCache(), time.Minute, discardLogger())
	query := catalog.ProductQuery{SkinType: "dry", Limit: 6}

	first, err := repo.Search(context.Background(), query)
	require.NoError(t, err)
	second, err := repo.Search(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, next.calls)

	_, err = repo.Search(context.Background(), catalog.ProductQuery{SkinType: "oily", Limit: 6})
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestCachedRepositoryToleratesCacheFailures(t *testing.T) {
	next := &countingRepo{products: []catalog.Product{{ID: "p1"}}}
	repo := NewCachedRepository(next, brokenCache{}, time.Minute, discardLogger())

	products, err := repo.Search(context.Background(), catalog.ProductQuery{})
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestCachedRepositoryDoesNotCacheErrors(t *testing.T) {
	next := &countingRepo{err: errors.New("db down")}
	cache := NewMemoryCache()
	repo := NewCachedRepository(next, cache, time.Minute, discardLogger())

	_, err := repo.Search(context.Background(), catalog.ProductQuery{})
	require.Error(t, err)
	require.Empty(t, cache.entries)
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(context.Background(), "k", []catalog.Product{{ID: "p1"}}, time.Minute))
	_, ok, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}

type countingRepo struct {
	products []catalog.Product
	err      error
	calls    int
}

func (r *countingRepo) Search(context.Context, catalog.ProductQuery) ([]catalog.Product, error) {
	r.calls++
	return r.products, r.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]catalog.Product, bool, error) {
	return nil, false, errors.New("cache offline")
}

func (brokenCache) Set(context.Context, string, []catalog.Product, time.Duration) error {
	return errors.New("cache offline")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryCacheSweepsExpiredEntriesOnSet(t *testing.T) {
	cache := NewMemoryCache()
	cache.maxEntries = 10000
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 0; i < 5000; i++ {
		require.NoError(t, cache.Set(context.Background(), fmt.Sprintf("query-%d", i), nil, time.Minute))
	}
	require.Len(t, cache.entries, 5000)

	now = now.Add(24 * time.Hour)
	require.NoError(t, cache.Set(context.Background(), "fresh", []catalog.Product{{ID: "p1"}}, time.Minute))
	require.Len(t, cache.entries, 1)
	require.Contains(t, cache.entries, "fresh")
}

func TestMemoryCacheCapsEntries(t *testing.T) {
	cache := NewMemoryCache()
	cache.maxEntries = 3
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(context.Background(), "a", nil, time.Minute))
	require.NoError(t, cache.Set(context.Background(), "b", nil, 3*time.Minute))
	require.NoError(t, cache.Set(context.Background(), "c", nil, 2*time.Minute))
	require.NoError(t, cache.Set(context.Background(), "a", nil, 5*time.Minute))
	require.Len(t, cache.entries, 3)

	require.NoError(t, cache.Set(context.Background(), "d", nil, time.Minute))
	require.Len(t, cache.entries, 3)
	require.NotContains(t, cache.entries, "c")
	require.Contains(t, cache.entries, "d")
}

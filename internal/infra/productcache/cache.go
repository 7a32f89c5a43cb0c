package productcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

// Cache stores product search results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]catalog.Product, bool, error)
	Set(ctx context.Context, key string, products []catalog.Product, ttl time.Duration) error
}

// CachedRepository decorates a product repository with a read-through cache.
// Cache failures are logged and the search falls through to the repository.
type CachedRepository struct {
	next   catalog.ProductRepository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with cache.
func NewCachedRepository(next catalog.ProductRepository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "productcache"),
	}
}

// Search serves from cache when possible.
func (r *CachedRepository) Search(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	key, err := searchKey(query)
	if err != nil {
		return r.next.Search(ctx, query)
	}
	if cached, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("product cache read failed", "error", err)
	} else if ok {
		return cached, nil
	}

	products, err := r.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, products, r.ttl); err != nil {
		r.logger.Warn("product cache write failed", "error", err)
	}
	return products, nil
}

func searchKey(query catalog.ProductQuery) (string, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16]), nil
}

var _ catalog.ProductRepository = (*CachedRepository)(nil)

package productrepo

import (
	"context"

	"github.com/yanqian/skinguide/internal/domain/catalog"
)

// MemoryRepository searches the embedded product table.
type MemoryRepository struct {
	products []catalog.Product
}

// NewMemoryRepository wraps a product table; the slice is not copied and must not be mutated.
func NewMemoryRepository(products []catalog.Product) *MemoryRepository {
	return &MemoryRepository{products: products}
}

// Search filters the table in memory.
func (r *MemoryRepository) Search(_ context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	return catalog.FilterProducts(r.products, query), nil
}

var _ catalog.ProductRepository = (*MemoryRepository)(nil)

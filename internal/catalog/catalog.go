package catalog

import (
	"context"
	"fmt"
	"sync"

	"retailsage/internal/domain"

	"go.uber.org/zap"
)

// ProductLister is the slice of the backend client the catalog needs.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Cache holds the in-memory product list fetched from the backend. It is
// read-mostly: refreshed at screen load and after a committed sale, when the
// backend's stock counts are authoritative.
type Cache struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int]domain.Product

	backend ProductLister
	logger  *zap.Logger
}

// NewCache creates an empty catalog cache.
func NewCache(backend ProductLister, logger *zap.Logger) *Cache {
	return &Cache{
		byID:    make(map[int]domain.Product),
		backend: backend,
		logger:  logger,
	}
}

// Refresh replaces the cached list with the backend's current catalog. On
// failure the previous cache is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.backend.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.mu.Unlock()

	c.logger.Debug("Catalog refreshed", zap.Int("products", len(products)))
	return nil
}

// Products returns a copy of the cached product list.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the cached product with the given id.
func (c *Cache) Get(id int) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byID[id]
	return p, ok
}

// Stock returns the cached stock count for a product, 0 when unknown.
func (c *Cache) Stock(id int) int {
	p, ok := c.Get(id)
	if !ok {
		return 0
	}
	return p.Stock
}

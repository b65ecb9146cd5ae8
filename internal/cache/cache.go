// Package cache is the in-process read cache for the hot catalog
// endpoints. Every admin write must evict through Invalidate; a missed
// eviction serves stale reads until the TTL runs out.
package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	KeyAllProducts = "products:all"
	KeySummary     = "products:summary"

	productByIDPrefix = "products:id:"

	CollectionTTL = 60 * time.Second
	ProductTTL    = 120 * time.Second
)

func KeyProduct(id uuid.UUID) string {
	return productByIDPrefix + id.String()
}

type Catalog struct {
	c *gocache.Cache
}

func New() *Catalog {
	return &Catalog{c: gocache.New(CollectionTTL, 5*time.Minute)}
}

func (c *Catalog) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Catalog) Set(key string, v any, ttl time.Duration) {
	c.c.Set(key, v, ttl)
}

// Invalidate evicts the collection keys plus the single-product key of
// the written product.
func (c *Catalog) Invalidate(productID uuid.UUID) {
	c.c.Delete(KeyAllProducts)
	c.c.Delete(KeySummary)
	if productID != uuid.Nil {
		c.c.Delete(KeyProduct(productID))
	}
}

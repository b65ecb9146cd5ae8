package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetMissesUntilSet(t *testing.T) {
	c := New()
	_, ok := c.Get(KeyAllProducts)
	assert.False(t, ok)

	c.Set(KeyAllProducts, []string{"a"}, CollectionTTL)
	v, ok := c.Get(KeyAllProducts)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
}

func TestEntriesExpire(t *testing.T) {
	c := New()
	c.Set(KeySummary, "cached", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(KeySummary)
	assert.False(t, ok)
}

func TestInvalidateEvictsAllKeyClasses(t *testing.T) {
	c := New()
	id := uuid.New()
	other := uuid.New()
	c.Set(KeyAllProducts, "all", CollectionTTL)
	c.Set(KeySummary, "summary", CollectionTTL)
	c.Set(KeyProduct(id), "one", ProductTTL)
	c.Set(KeyProduct(other), "two", ProductTTL)

	c.Invalidate(id)

	_, ok := c.Get(KeyAllProducts)
	assert.False(t, ok)
	_, ok = c.Get(KeySummary)
	assert.False(t, ok)
	_, ok = c.Get(KeyProduct(id))
	assert.False(t, ok)

	// untouched product keys survive
	_, ok = c.Get(KeyProduct(other))
	assert.True(t, ok)
}

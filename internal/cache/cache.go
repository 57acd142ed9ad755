package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

// Cache stores JSON encoded values in a freecache segment. Suitable for small,
// read-mostly lists such as categories and tags.
type Cache struct {
	store *freecache.Cache
	ttl   time.Duration
}

func New(sizeBytes int, ttl time.Duration) *Cache {
	return &Cache{
		store: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// Get decodes the cached value for key into dst and reports whether it was found.
func (c *Cache) Get(key string, dst any) (bool, error) {
	valueBytes, err := c.store.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(valueBytes, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(key string, value any) error {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.store.Set([]byte(key), valueBytes, int(c.ttl.Seconds()))
}

func (c *Cache) Delete(key string) {
	c.store.Del([]byte(key))
}

func (c *Cache) Clear() {
	c.store.Clear()
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheDuration is how long a fetched list stays valid.
const DefaultCacheDuration = 24 * time.Hour

// ListCache keeps whole result lists from a backend, keyed by a caller chosen
// name. Only non-empty lists are stored, so an empty backend response is
// always fetched again on the next lookup.
type ListCache struct {
	cache *cache.Cache
	group singleflight.Group
	file  string
}

// NewListCache creates a cache whose entries expire after ttl.
func NewListCache(ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultCacheDuration
	}
	return &ListCache{cache: cache.New(ttl, 10*time.Minute)}
}

// WithFile sets the file used by Load and Save.
func (c *ListCache) WithFile(path string) *ListCache {
	c.file = path
	return c
}

// File returns the persistence file, if any.
func (c *ListCache) File() string {
	return c.file
}

// Load restores entries from the persistence file. A missing file is not an error.
func (c *ListCache) Load() error {
	if c.file == "" {
		return nil
	}
	if _, err := os.Stat(c.file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := c.cache.LoadFile(c.file); err != nil {
		return fmt.Errorf("failed to load cache %s: %w", c.file, err)
	}
	return nil
}

// Save persists all unexpired entries to the persistence file.
func (c *ListCache) Save() error {
	if c.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.file), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	c.cache.DeleteExpired()
	if err := c.cache.SaveFile(c.file); err != nil {
		return fmt.Errorf("failed to save cache %s: %w", c.file, err)
	}
	return nil
}

// Invalidate drops the entry stored under key.
func (c *ListCache) Invalidate(key string) {
	c.cache.Delete(key)
}

// Len returns the number of stored entries, including expired ones not yet cleaned up.
func (c *ListCache) Len() int {
	return c.cache.ItemCount()
}

// CachedList returns the list stored under key, loading it when absent.
// A nil cache always loads.
func CachedList[T any](ctx context.Context, c *ListCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil {
		return load(ctx)
	}
	if value, ok := c.cache.Get(key); ok {
		if list, ok := value.([]T); ok {
			return list, nil
		}
	}
	return RefreshList(ctx, c, key, load)
}

// RefreshList reloads the list stored under key. Concurrent refreshes of the
// same key share a single load.
func RefreshList[T any](ctx context.Context, c *ListCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil {
		return load(ctx)
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		list, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			c.cache.Set(key, list, cache.DefaultExpiration)
		} else {
			c.cache.Delete(key)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	list, _ := value.([]T)
	return list, nil
}

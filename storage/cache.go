package storage

import (
	"sync"

	"sentiment-dashboard/models"
)

// CacheKey identifies a parsed table: the same file loaded in another mode
// is a separate entry.
type CacheKey struct {
	File string
	Mode models.LoadMode
}

// DatasetCache memoizes parsed tables. Entries are write-once; readers get
// the stored pointer and must not mutate it.
type DatasetCache struct {
	mu      sync.RWMutex
	entries map[CacheKey]*models.RawDataset
}

// NewDatasetCache creates an empty DatasetCache.
func NewDatasetCache() *DatasetCache {
	return &DatasetCache{entries: make(map[CacheKey]*models.RawDataset)}
}

// Get returns the cached table for key.
func (c *DatasetCache) Get(key CacheKey) (*models.RawDataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[key]
	return ds, ok
}

// PutIfAbsent stores ds unless key is already present. It returns the
// entry that ends up in the cache and whether ds was the one inserted.
func (c *DatasetCache) PutIfAbsent(key CacheKey, ds *models.RawDataset) (*models.RawDataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing, false
	}
	c.entries[key] = ds
	return ds, true
}

// Reset drops every entry.
func (c *DatasetCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]*models.RawDataset)
}

// Size returns the number of cached tables.
func (c *DatasetCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

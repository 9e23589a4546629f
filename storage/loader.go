package storage

import (
	"fmt"

	"sentiment-dashboard/config"
	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// Loader resolves dataset identifiers to parsed tables, memoizing results.
type Loader struct {
	registry *config.Registry
	source   DatasetSource
	cache    *DatasetCache
	logger   *utils.Logger
}

// NewLoader creates a Loader reading from source.
func NewLoader(registry *config.Registry, source DatasetSource, logger *utils.Logger) *Loader {
	return &Loader{
		registry: registry,
		source:   source,
		cache:    NewDatasetCache(),
		logger:   logger,
	}
}

// Registry returns the corpus table the loader resolves against.
func (l *Loader) Registry() *config.Registry { return l.registry }

// Load returns the parsed table for id. Failed loads are not cached.
func (l *Loader) Load(id models.DatasetID) (*models.RawDataset, error) {
	file, err := l.registry.File(id)
	if err != nil {
		return nil, err
	}
	key := CacheKey{File: file.Name, Mode: id.Mode}

	if ds, ok := l.cache.Get(key); ok {
		return withID(ds, id), nil
	}

	ds, err := l.source.Fetch(id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	stored, inserted := l.cache.PutIfAbsent(key, ds)
	if inserted {
		l.logger.Debug("[loader] cached %s (%d rows)", file.Name, ds.Len())
	}
	return withID(stored, id), nil
}

// Reset empties the cache so the next Load re-reads from the source.
func (l *Loader) Reset() {
	n := l.cache.Size()
	l.cache.Reset()
	l.logger.Info("[loader] cache reset (%d tables dropped)", n)
}

// Cached returns the number of memoized tables.
func (l *Loader) Cached() int { return l.cache.Size() }

// withID returns ds when it already carries id, otherwise a shallow copy
// relabelled with id. Two identifiers may share one file.
func withID(ds *models.RawDataset, id models.DatasetID) *models.RawDataset {
	if ds.ID == id {
		return ds
	}
	cp := *ds
	cp.ID = id
	return &cp
}

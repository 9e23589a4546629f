package storage

import "sentiment-dashboard/models"

// DatasetSource is the interface any corpus backend must satisfy.
type DatasetSource interface {
	Fetch(id models.DatasetID) (*models.RawDataset, error)
}

// DatasetWriter is the interface for backends that can store a parsed corpus.
type DatasetWriter interface {
	Write(ds *models.RawDataset) error
	Close() error
}

package models

import "errors"

var (
	ErrEmptyDataset       = errors.New("dataset is empty")
	ErrMissingGroundTruth = errors.New("ground truth column missing")
	ErrMissingPredicted   = errors.New("predicted label column missing")
	ErrNoProbabilities    = errors.New("class probability columns missing")
	ErrDegenerateClass    = errors.New("class has no positive or no negative instances")
	ErrUnknownTopic       = errors.New("unknown topic")
	ErrUnknownDataset     = errors.New("dataset not registered")
	ErrNoTimestamp        = errors.New("no date column found")
)

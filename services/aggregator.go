package services

import (
	"fmt"

	"sentiment-dashboard/config"
	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// DatasetLoader resolves dataset identifiers to parsed tables.
// *storage.Loader satisfies it.
type DatasetLoader interface {
	Load(id models.DatasetID) (*models.RawDataset, error)
	Registry() *config.Registry
}

// Aggregator computes sentiment volumes over the full corpora.
type Aggregator struct {
	loader     DatasetLoader
	normalizer *Normalizer
	logger     *utils.Logger
}

func NewAggregator(loader DatasetLoader, normalizer *Normalizer, logger *utils.Logger) *Aggregator {
	return &Aggregator{loader: loader, normalizer: normalizer, logger: logger}
}

// Volume counts the predicted labels of a normalized full corpus. Ground
// truth is never consulted.
func Volume(topic models.Topic, source models.SourceType, ds *models.Dataset) models.VolumeSummary {
	v := models.VolumeSummary{Topic: topic, Source: source}
	if ds == nil || !ds.HasPredicted {
		return v
	}
	for _, r := range ds.Records {
		switch r.Predicted {
		case models.NEG:
			v.NEG++
		case models.NEU:
			v.NEU++
		case models.POS:
			v.POS++
		}
	}
	v.Total = ds.Len()
	return v
}

// Overview returns one VolumeSummary per registered (topic, source) pair.
// A corpus that fails to load contributes an empty summary and a notice.
func (a *Aggregator) Overview() *models.Overview {
	out := &models.Overview{}
	for _, topic := range a.loader.Registry().Topics() {
		for _, src := range models.SourceTypes {
			v, notice := a.volume(topic, src)
			out.Volumes = append(out.Volumes, v)
			if notice != nil {
				out.Notices = append(out.Notices, *notice)
			}
		}
	}
	return out
}

// TopicVolume returns the post and comment volumes of one topic.
func (a *Aggregator) TopicVolume(topic models.Topic) ([]models.VolumeSummary, []models.Notice, error) {
	if !a.loader.Registry().HasTopic(topic) {
		return nil, nil, fmt.Errorf("aggregator: %w: %q", models.ErrUnknownTopic, topic)
	}
	var (
		volumes []models.VolumeSummary
		notices []models.Notice
	)
	for _, src := range models.SourceTypes {
		v, notice := a.volume(topic, src)
		volumes = append(volumes, v)
		if notice != nil {
			notices = append(notices, *notice)
		}
	}
	return volumes, notices, nil
}

func (a *Aggregator) volume(topic models.Topic, src models.SourceType) (models.VolumeSummary, *models.Notice) {
	id := models.DatasetID{Topic: topic, Source: src, Mode: models.ModeFull}
	raw, err := a.loader.Load(id)
	if err != nil {
		a.logger.Warn("[aggregator] %s: %v", id, err)
		return models.VolumeSummary{Topic: topic, Source: src}, &models.Notice{
			Level:   models.NoticeWarning,
			Scope:   fmt.Sprintf("%s/%s", topic, src),
			Message: fmt.Sprintf("could not load corpus: %v", err),
		}
	}
	if !raw.HasPredicted {
		a.logger.Warn("[aggregator] %s: no sentiment column", id)
		return models.VolumeSummary{Topic: topic, Source: src}, &models.Notice{
			Level:   models.NoticeWarning,
			Scope:   fmt.Sprintf("%s/%s", topic, src),
			Message: "corpus has no sentiment column",
		}
	}
	return Volume(topic, src, a.normalizer.Normalize(raw)), nil
}

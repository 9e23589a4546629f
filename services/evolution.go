package services

import (
	"fmt"
	"sort"
	"time"

	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

const (
	monthLayout = "2006-01"
	trendMonths = 6
)

// Evolution derives time series from the full corpora.
type Evolution struct {
	loader     DatasetLoader
	normalizer *Normalizer
	logger     *utils.Logger
}

func NewEvolution(loader DatasetLoader, normalizer *Normalizer, logger *utils.Logger) *Evolution {
	return &Evolution{loader: loader, normalizer: normalizer, logger: logger}
}

// MonthlyCounts buckets records by calendar month. With byClass set, each
// month is further split by predicted class. Records without a timestamp
// are dropped. Output is sorted by month, then class.
func MonthlyCounts(topic models.Topic, source models.SourceType, ds *models.Dataset, byClass bool) []models.MonthlyCount {
	type key struct {
		month string
		class models.Label
	}
	counts := make(map[key]int)
	for _, r := range ds.Records {
		if r.Timestamp.IsZero() {
			continue
		}
		k := key{month: r.Timestamp.Format(monthLayout)}
		if byClass {
			if !r.Predicted.Valid() {
				continue
			}
			k.class = r.Predicted
		}
		counts[k]++
	}

	out := make([]models.MonthlyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.MonthlyCount{Month: k.month, Topic: topic, Source: source, Class: k.class, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Class.Index() < out[j].Class.Index()
	})
	return out
}

// ComputeTrend compares, per class, the records of the last six months up
// to the latest timestamp with the six months before. Variation is a
// percentage, 0 when the earlier window is empty.
func ComputeTrend(topic models.Topic, source models.SourceType, ds *models.Dataset) (*models.Trend, error) {
	var latest time.Time
	for _, r := range ds.Records {
		if r.Timestamp.After(latest) {
			latest = r.Timestamp
		}
	}
	if latest.IsZero() {
		return nil, fmt.Errorf("trend: %s/%s: %w", topic, source, models.ErrEmptyDataset)
	}

	recentStart := monthsBefore(latest, trendMonths)
	previousStart := monthsBefore(latest, 2*trendMonths)

	var recent, previous [3]int
	for _, r := range ds.Records {
		i := r.Predicted.Index()
		if i < 0 || r.Timestamp.IsZero() {
			continue
		}
		switch {
		case !r.Timestamp.Before(recentStart):
			recent[i]++
		case !r.Timestamp.Before(previousStart):
			previous[i]++
		}
	}

	t := &models.Trend{Topic: topic, Source: source, Latest: latest}
	for i, cls := range models.Classes {
		var variation float64
		if previous[i] > 0 {
			variation = float64(recent[i]-previous[i]) / float64(previous[i]) * 100
		}
		t.Classes = append(t.Classes, models.ClassTrend{
			Class:     cls,
			Recent:    recent[i],
			Previous:  previous[i],
			Variation: variation,
		})
	}
	return t, nil
}

// MonthlyVolume returns monthly record counts for every full corpus that
// has a timestamp column.
func (e *Evolution) MonthlyVolume() ([]models.MonthlyCount, []models.Notice) {
	var (
		out     []models.MonthlyCount
		notices []models.Notice
	)
	for _, topic := range e.loader.Registry().Topics() {
		for _, src := range models.SourceTypes {
			ds, err := e.timeline(topic, src)
			if err != nil {
				notices = append(notices, models.Notice{
					Level:   models.NoticeWarning,
					Scope:   fmt.Sprintf("%s/%s", topic, src),
					Message: err.Error(),
				})
				continue
			}
			out = append(out, MonthlyCounts(topic, src, ds, false)...)
		}
	}
	return out, notices
}

// MonthlySentiment returns monthly counts per class for one corpus.
func (e *Evolution) MonthlySentiment(topic models.Topic, source models.SourceType) ([]models.MonthlyCount, error) {
	ds, err := e.timeline(topic, source)
	if err != nil {
		return nil, err
	}
	if !ds.HasPredicted {
		return nil, fmt.Errorf("evolution: %s/%s: %w", topic, source, models.ErrMissingPredicted)
	}
	return MonthlyCounts(topic, source, ds, true), nil
}

// Trend returns the six-month class trend of one corpus.
func (e *Evolution) Trend(topic models.Topic, source models.SourceType) (*models.Trend, error) {
	ds, err := e.timeline(topic, source)
	if err != nil {
		return nil, err
	}
	if !ds.HasPredicted {
		return nil, fmt.Errorf("evolution: %s/%s: %w", topic, source, models.ErrMissingPredicted)
	}
	return ComputeTrend(topic, source, ds)
}

func (e *Evolution) timeline(topic models.Topic, source models.SourceType) (*models.Dataset, error) {
	id := models.DatasetID{Topic: topic, Source: source, Mode: models.ModeFull}
	raw, err := e.loader.Load(id)
	if err != nil {
		e.logger.Warn("[evolution] %s: %v", id, err)
		return nil, fmt.Errorf("evolution: %w", err)
	}
	if !raw.HasTimestamp {
		e.logger.Debug("[evolution] %s: no date column", id)
		return nil, fmt.Errorf("evolution: %s: %w", id, models.ErrNoTimestamp)
	}
	return e.normalizer.Normalize(raw), nil
}

// monthsBefore steps back n calendar months, clamping the day to the end of
// the target month: Aug 31 minus six months is Feb 28, not Mar 3.
func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

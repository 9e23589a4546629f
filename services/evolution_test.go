package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment-dashboard/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyCountsSkipsMissingTimestamps(t *testing.T) {
	ds := &models.Dataset{
		HasPredicted: true,
		HasTimestamp: true,
		Records: []models.Record{
			{Predicted: models.POS, Timestamp: day(2023, 2, 1)},
			{Predicted: models.NEG, Timestamp: day(2023, 1, 31)},
			{Predicted: models.NEG},
			{Predicted: models.NEU, Timestamp: day(2023, 1, 2)},
		},
	}

	got := MonthlyCounts(models.TopicSTF, models.SourcePost, ds, false)
	require.Len(t, got, 2)
	assert.Equal(t, "2023-01", got[0].Month)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "2023-02", got[1].Month)
	assert.Equal(t, 1, got[1].Count)
}

func TestMonthlyCountsByClassOrder(t *testing.T) {
	ds := &models.Dataset{
		HasPredicted: true,
		Records: []models.Record{
			{Predicted: models.POS, Timestamp: day(2023, 1, 5)},
			{Predicted: models.NEG, Timestamp: day(2023, 1, 6)},
			{Predicted: models.NEG, Timestamp: day(2023, 1, 7)},
		},
	}

	got := MonthlyCounts(models.TopicSTF, models.SourcePost, ds, true)
	require.Len(t, got, 2)
	assert.Equal(t, models.NEG, got[0].Class)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, models.POS, got[1].Class)
}

func TestComputeTrendWindows(t *testing.T) {
	ds := &models.Dataset{
		HasPredicted: true,
		Records: []models.Record{
			{Predicted: models.NEG, Timestamp: day(2023, 12, 1)},
			{Predicted: models.NEG, Timestamp: day(2023, 7, 1)},
			{Predicted: models.NEG, Timestamp: day(2023, 3, 1)},
			{Predicted: models.POS, Timestamp: day(2023, 2, 1)},
			{Predicted: models.POS, Timestamp: day(2023, 1, 1)},
			{Predicted: models.NEU, Timestamp: day(2022, 1, 1)},
		},
	}

	tr, err := ComputeTrend(models.TopicSTF, models.SourcePost, ds)
	require.NoError(t, err)
	assert.True(t, tr.Latest.Equal(day(2023, 12, 1)))
	require.Len(t, tr.Classes, 3)

	neg := tr.Classes[0]
	assert.Equal(t, 2, neg.Recent)
	assert.Equal(t, 1, neg.Previous)
	assert.InDelta(t, 100.0, neg.Variation, 1e-9)

	neu := tr.Classes[1]
	assert.Equal(t, 0, neu.Recent)
	assert.Equal(t, 0, neu.Previous, "records older than twelve months are ignored")
	assert.Equal(t, 0.0, neu.Variation)

	pos := tr.Classes[2]
	assert.Equal(t, 0, pos.Recent)
	assert.Equal(t, 2, pos.Previous)
	assert.InDelta(t, -100.0, pos.Variation, 1e-9)
}

func TestComputeTrendMonthEnd(t *testing.T) {
	ds := &models.Dataset{
		HasPredicted: true,
		Records: []models.Record{
			{Predicted: models.NEG, Timestamp: day(2023, 8, 31)},
			{Predicted: models.NEG, Timestamp: day(2023, 2, 28)},
			{Predicted: models.NEG, Timestamp: day(2023, 3, 2)},
			{Predicted: models.POS, Timestamp: day(2023, 2, 27)},
		},
	}

	tr, err := ComputeTrend(models.TopicSTF, models.SourcePost, ds)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Classes[0].Recent, "Feb 28 opens the recent window for Aug 31")
	assert.Equal(t, 0, tr.Classes[0].Previous)
	assert.Equal(t, 1, tr.Classes[2].Previous)
}

func TestMonthsBefore(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{day(2023, 8, 31), 6, day(2023, 2, 28)},
		{day(2024, 8, 31), 6, day(2024, 2, 29)},
		{day(2023, 8, 31), 12, day(2022, 8, 31)},
		{day(2023, 12, 31), 6, day(2023, 6, 30)},
		{day(2023, 3, 15), 6, day(2022, 9, 15)},
	}
	for _, tt := range tests {
		got := monthsBefore(tt.from, tt.n)
		assert.True(t, got.Equal(tt.want), "monthsBefore(%s, %d) = %s; want %s",
			tt.from.Format("2006-01-02"), tt.n, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
	}
}

func TestComputeTrendWithoutTimestamps(t *testing.T) {
	ds := &models.Dataset{Records: []models.Record{{Predicted: models.NEG}}}
	_, err := ComputeTrend(models.TopicSTF, models.SourcePost, ds)
	assert.ErrorIs(t, err, models.ErrEmptyDataset)
}

func TestEvolutionFromCorpus(t *testing.T) {
	loader := newFixtureLoader(t)
	evo := NewEvolution(loader, NewNormalizer(newTestLogger()), newTestLogger())

	volume, notices := evo.MonthlyVolume()
	require.Len(t, volume, 3)
	assert.Equal(t, "2023-07", volume[2].Month)
	assert.Equal(t, 2, volume[2].Count)
	assert.Len(t, notices, 5)

	sentiment, err := evo.MonthlySentiment(models.TopicSTF, models.SourcePost)
	require.NoError(t, err)
	require.Len(t, sentiment, 4)
	assert.Equal(t, models.NEU, sentiment[3].Class, "NEY counted as NEU")

	tr, err := evo.Trend(models.TopicSTF, models.SourcePost)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Classes[0].Recent)
	assert.Equal(t, 1, tr.Classes[1].Recent)
	assert.Equal(t, 1, tr.Classes[2].Previous)
	assert.InDelta(t, -100.0, tr.Classes[2].Variation, 1e-9)
}

func TestEvolutionMissingDateColumn(t *testing.T) {
	loader := newFixtureLoader(t)
	evo := NewEvolution(loader, NewNormalizer(newTestLogger()), newTestLogger())

	// The full STF comments corpus is absent from the fixtures.
	_, err := evo.Trend(models.TopicSTF, models.SourceComment)
	assert.Error(t, err)
}

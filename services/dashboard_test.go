package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment-dashboard/models"
)

func TestDashboardEvaluate(t *testing.T) {
	d := NewDashboard(newFixtureLoader(t), newTestLogger(), 2, 0)

	ev, err := d.Evaluate(models.TopicSTF, models.SourcePost)
	require.NoError(t, err)
	assert.Equal(t, 4, ev.SampleSize)
	assert.Equal(t, 0.75, ev.Accuracy)
	assert.Equal(t, 1.0, ev.Classes[0].Precision)
	assert.Equal(t, 0.5, ev.Classes[0].Recall)
	assert.InDelta(t, 1.0, ev.Classes[0].AUC, 1e-9)
	assert.NotEmpty(t, ev.ROC)
	assert.Empty(t, ev.Notices)
}

func TestDashboardEvaluateMissingGroundTruth(t *testing.T) {
	d := NewDashboard(newFixtureLoader(t), newTestLogger(), 2, 0)

	_, err := d.Evaluate(models.TopicSTF, models.SourceComment)
	assert.ErrorIs(t, err, models.ErrMissingGroundTruth)
	assert.True(t, IsSkippable(err))
}

func TestEvaluateAllSkipsMissingTopic(t *testing.T) {
	d := NewDashboard(newFixtureLoader(t), newTestLogger(), 2, 0)

	report := d.EvaluateAll()
	require.Len(t, report.Evaluations, 1)
	assert.Equal(t, models.TopicSTF, report.Evaluations[0].Topic)

	records := report.Records()
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, models.TopicSTF, r.Topic)
		assert.Equal(t, 0.75, r.Accuracy)
	}

	// STF comments lacks ground truth; four files of the other topics are missing.
	assert.Len(t, report.Notices, 5)
}

func TestEvaluateTopic(t *testing.T) {
	d := NewDashboard(newFixtureLoader(t), newTestLogger(), 2, 0)

	report, err := d.EvaluateTopic(models.TopicAuxilio)
	require.NoError(t, err)
	assert.Empty(t, report.Evaluations)
	assert.Len(t, report.Notices, 2)

	_, err = d.EvaluateTopic("Eleições")
	assert.ErrorIs(t, err, models.ErrUnknownTopic)
}

func TestTopicOverview(t *testing.T) {
	d := NewDashboard(newFixtureLoader(t), newTestLogger(), 2, 0)

	overview, err := d.TopicOverview(models.TopicSTF)
	require.NoError(t, err)
	require.Len(t, overview.Volumes, 2)
	assert.Equal(t, models.SourcePost, overview.Volumes[0].Source)
	assert.Len(t, overview.Notices, 1)

	_, err = d.TopicOverview("Eleições")
	assert.ErrorIs(t, err, models.ErrUnknownTopic)
}

func TestDashboardWarmAndRefresh(t *testing.T) {
	loader := newFixtureLoader(t)
	d := NewDashboard(loader, newTestLogger(), 3, 0)

	errs := d.Warm()
	assert.Len(t, errs, 9)
	assert.Equal(t, 3, loader.Cached())

	errs = d.Refresh()
	assert.Len(t, errs, 9)
	assert.Equal(t, 3, loader.Cached())
}

func sampleRecords() []models.MetricRecord {
	return []models.MetricRecord{
		{Topic: models.TopicSTF, Source: models.SourcePost, Class: models.NEG, Precision: 1, Recall: 0.5, F1: 0.6, Accuracy: 0.8},
		{Topic: models.TopicSTF, Source: models.SourcePost, Class: models.NEU, Precision: 0.5, Recall: 1, F1: 0.6, Accuracy: 0.8},
		{Topic: models.TopicSTF, Source: models.SourceComment, Class: models.NEG, Precision: 0, Recall: 0, F1: 0, Accuracy: 0.4},
		{Topic: models.TopicAuxilio, Source: models.SourcePost, Class: models.POS, Precision: 0.9, Recall: 0.9, F1: 0.9, Accuracy: 0.9},
	}
}

func TestSummarizeFilters(t *testing.T) {
	records := sampleRecords()

	all := Summarize(records, "", "")
	assert.Equal(t, 4, all.Rows)
	assert.InDelta(t, 0.725, all.Accuracy, 1e-9)

	stfPosts := Summarize(records, models.TopicSTF, models.SourcePost)
	assert.Equal(t, 2, stfPosts.Rows)
	assert.InDelta(t, 0.8, stfPosts.Accuracy, 1e-9)
	assert.InDelta(t, 0.75, stfPosts.Precision, 1e-9)
	assert.InDelta(t, 0.75, stfPosts.Recall, 1e-9)
	assert.InDelta(t, 0.6, stfPosts.F1, 1e-9)

	stfAll := Summarize(records, models.TopicSTF, "")
	assert.Equal(t, 3, stfAll.Rows)

	none := Summarize(records, models.TopicVacinacao, "")
	assert.Equal(t, models.Summary{}, none)
}

func TestMetricLong(t *testing.T) {
	records := sampleRecords()[:1]

	rows := MetricLong(records)
	require.Len(t, rows, 3)
	assert.Equal(t, MetricPrecision, rows[0].Metric)
	assert.Equal(t, 1.0, rows[0].Score)
	assert.Equal(t, MetricRecall, rows[1].Metric)
	assert.Equal(t, MetricF1, rows[2].Metric)

	custom := MetricLong(records, MetricAccuracy, "Bogus")
	require.Len(t, custom, 1)
	assert.Equal(t, 0.8, custom[0].Score)
}

func TestConfusionCellsAndSummary(t *testing.T) {
	m := models.ConfusionMatrix{
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	cells := ConfusionCells(m)
	require.Len(t, cells, 9)
	assert.Equal(t, models.ConfusionCell{GroundTruth: models.NEG, Predicted: models.NEU, Count: 1}, cells[1])
	assert.Equal(t, models.ConfusionCell{GroundTruth: models.POS, Predicted: models.POS, Count: 1}, cells[8])

	var sum int
	for _, c := range cells {
		sum += c.Count
	}
	assert.Equal(t, m.Total(), sum)

	s := SummarizeConfusion(m)
	assert.Equal(t, models.ConfusionSummary{Total: 4, Correct: 3, Errors: 1, HitRate: 0.75}, s)
	assert.Equal(t, models.ConfusionSummary{}, SummarizeConfusion(models.ConfusionMatrix{}))
}

func TestROCSeriesDiagonal(t *testing.T) {
	ev := &models.Evaluation{ROC: []models.ROCPoint{{FPR: 0, TPR: 0, Class: models.NEG}}}
	curves, diagonal := ROCSeries(ev)
	assert.Len(t, curves, 1)
	require.Len(t, diagonal, 2)
	assert.Equal(t, models.ROCPoint{FPR: 1, TPR: 1}, diagonal[1])
}

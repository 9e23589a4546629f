package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment-dashboard/models"
)

func TestVolumeCountsPredictedOnly(t *testing.T) {
	ds := &models.Dataset{
		HasGroundTruth: true,
		HasPredicted:   true,
		Records: []models.Record{
			{GroundTruth: models.POS, Predicted: models.NEG},
			{GroundTruth: models.POS, Predicted: models.NEG},
			{GroundTruth: models.POS, Predicted: models.NEU},
		},
	}

	v := Volume(models.TopicSTF, models.SourcePost, ds)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 2, v.NEG)
	assert.Equal(t, 1, v.NEU)
	assert.Equal(t, 0, v.POS)
	assert.Equal(t, v.Total, v.NEG+v.NEU+v.POS)
}

func TestVolumeWithoutPredictions(t *testing.T) {
	v := Volume(models.TopicSTF, models.SourcePost, &models.Dataset{})
	assert.Equal(t, 0, v.Total)
	assert.Equal(t, 0.0, v.Share(models.NEG))
}

func TestAggregatorOverview(t *testing.T) {
	loader := newFixtureLoader(t)
	agg := NewAggregator(loader, NewNormalizer(newTestLogger()), newTestLogger())

	o := agg.Overview()
	require.Len(t, o.Volumes, 6)

	stf := o.Volumes[0]
	assert.Equal(t, models.TopicSTF, stf.Topic)
	assert.Equal(t, models.SourcePost, stf.Source)
	assert.Equal(t, 4, stf.Total)
	assert.Equal(t, 2, stf.NEG)
	assert.Equal(t, 1, stf.NEU, "NEY must be normalized to NEU before counting")
	assert.Equal(t, 1, stf.POS)

	// STF comments plus both sources of the two other topics are missing.
	assert.Len(t, o.Notices, 5)
	for _, n := range o.Notices {
		assert.Equal(t, models.NoticeWarning, n.Level)
	}
	assert.Equal(t, 0, o.Volumes[1].Total)
}

func TestAggregatorTopicVolume(t *testing.T) {
	loader := newFixtureLoader(t)
	agg := NewAggregator(loader, NewNormalizer(newTestLogger()), newTestLogger())

	volumes, notices, err := agg.TopicVolume(models.TopicSTF)
	require.NoError(t, err)
	assert.Len(t, volumes, 2)
	assert.Len(t, notices, 1)

	_, _, err = agg.TopicVolume("Eleições")
	assert.ErrorIs(t, err, models.ErrUnknownTopic)
}

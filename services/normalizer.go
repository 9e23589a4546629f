package services

import (
	"strings"

	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// substitutions maps corrupted annotation tokens to their intended class.
// Anything else that is not already canonical falls back to NEU, which
// inflates the neutral class. Kept for parity with published numbers.
var substitutions = map[string]models.Label{
	"neu":     models.NEU,
	"NEY":     models.NEU,
	"UNKNOWN": models.NEU,
	"MEI":     models.NEU,
	"NaN":     models.NEU,
	"BEY":     models.NEU,
	"BEG":     models.NEG,
}

// NormalizeLabel maps a raw label token onto NEG, NEU or POS.
func NormalizeLabel(raw string) models.Label {
	token := strings.TrimSpace(raw)
	if l := models.Label(token); l.Valid() {
		return l
	}
	if l, ok := substitutions[token]; ok {
		return l
	}
	return models.NEU
}

// NormalizeLabels applies NormalizeLabel to every element.
func NormalizeLabels(raw []string) []models.Label {
	out := make([]models.Label, len(raw))
	for i, r := range raw {
		out[i] = NormalizeLabel(r)
	}
	return out
}

// Normalizer turns raw datasets into datasets whose labels are canonical.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize returns a fresh Dataset built from raw. Ground truth and
// predicted columns are normalized independently.
func (n *Normalizer) Normalize(raw *models.RawDataset) *models.Dataset {
	if raw == nil {
		return &models.Dataset{}
	}

	ds := &models.Dataset{
		ID:               raw.ID,
		HasGroundTruth:   raw.HasGroundTruth,
		HasPredicted:     raw.HasPredicted,
		HasProbabilities: raw.HasProbabilities,
		HasTimestamp:     raw.HasTimestamp,
		Records:          make([]models.Record, 0, len(raw.Records)),
	}

	var substituted, fallback int
	for _, r := range raw.Records {
		rec := models.Record{
			Probabilities: r.Probabilities,
			Timestamp:     r.Timestamp,
		}
		if raw.HasGroundTruth {
			rec.GroundTruth = NormalizeLabel(r.GroundTruth)
			s, f := classify(r.GroundTruth)
			substituted += s
			fallback += f
		}
		if raw.HasPredicted {
			rec.Predicted = NormalizeLabel(r.Predicted)
			s, f := classify(r.Predicted)
			substituted += s
			fallback += f
		}
		ds.Records = append(ds.Records, rec)
	}

	if substituted > 0 || fallback > 0 {
		n.logger.Debug("[normalizer] %s: %d known variants substituted, %d unknown labels defaulted to NEU",
			raw.ID, substituted, fallback)
	}
	return ds
}

// classify reports whether a raw token was a known variant (1, 0) or an
// unknown token that defaulted to NEU (0, 1).
func classify(raw string) (substituted, fallback int) {
	token := strings.TrimSpace(raw)
	if models.Label(token).Valid() {
		return 0, 0
	}
	if _, ok := substitutions[token]; ok {
		return 1, 0
	}
	return 0, 1
}

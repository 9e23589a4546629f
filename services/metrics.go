package services

import (
	"errors"
	"fmt"
	"math"

	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// Accuracy returns the fraction of positions where pred equals truth.
// It returns NaN for empty input; callers must handle that case.
func Accuracy(truth, pred []models.Label) float64 {
	n := len(truth)
	if len(pred) < n {
		n = len(pred)
	}
	if n == 0 {
		return math.NaN()
	}
	var hits int
	for i := 0; i < n; i++ {
		if truth[i] == pred[i] {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// BuildConfusionMatrix counts (truth, predicted) pairs over the fixed
// class order. Pairs with a non-canonical label are ignored.
func BuildConfusionMatrix(truth, pred []models.Label) models.ConfusionMatrix {
	var m models.ConfusionMatrix
	n := len(truth)
	if len(pred) < n {
		n = len(pred)
	}
	for i := 0; i < n; i++ {
		t, p := truth[i].Index(), pred[i].Index()
		if t < 0 || p < 0 {
			continue
		}
		m[t][p]++
	}
	return m
}

// Precision returns TP/(TP+FP) for class i, 0 when nothing was predicted as i.
func Precision(m models.ConfusionMatrix, i int) float64 {
	return ratio(m[i][i], m.ColSum(i))
}

// Recall returns TP/(TP+FN) for class i, 0 when class i never occurs.
func Recall(m models.ConfusionMatrix, i int) float64 {
	return ratio(m[i][i], m.RowSum(i))
}

// F1 returns the harmonic mean of precision and recall, 0 when both are 0.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * (precision * recall) / (precision + recall)
}

// Specificity returns TN/(TN+FP) for class i, 0 when there are no
// negative instances of the class.
func Specificity(m models.ConfusionMatrix, i int) float64 {
	tn := m.Total() - (m.RowSum(i) + m.ColSum(i) - m[i][i])
	fp := m.ColSum(i) - m[i][i]
	return ratio(tn, tn+fp)
}

// ClassificationReport computes precision, recall, F1, support and
// specificity for every class in order.
func ClassificationReport(m models.ConfusionMatrix) [3]models.ClassMetrics {
	var out [3]models.ClassMetrics
	for i, cls := range models.Classes {
		p := Precision(m, i)
		r := Recall(m, i)
		out[i] = models.ClassMetrics{
			Class:       cls,
			Precision:   p,
			Recall:      r,
			F1:          F1(p, r),
			Support:     m.RowSum(i),
			Specificity: Specificity(m, i),
		}
	}
	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// MetricsEngine evaluates a normalized sample dataset.
type MetricsEngine struct {
	logger *utils.Logger
}

// NewMetricsEngine creates a MetricsEngine with the given logger.
func NewMetricsEngine(logger *utils.Logger) *MetricsEngine {
	return &MetricsEngine{logger: logger}
}

// Evaluate computes accuracy, per-class report, confusion matrix,
// specificity and one-vs-rest AUC for one (topic, source) sample.
// It fails only when the sample cannot be evaluated at all: no ground
// truth, no predictions, or no rows. AUC problems degrade to 0 with a notice.
func (e *MetricsEngine) Evaluate(topic models.Topic, source models.SourceType, ds *models.Dataset) (*models.Evaluation, error) {
	if ds == nil || !ds.HasGroundTruth {
		return nil, models.ErrMissingGroundTruth
	}
	if !ds.HasPredicted {
		return nil, models.ErrMissingPredicted
	}
	if ds.Len() == 0 {
		return nil, models.ErrEmptyDataset
	}

	truth := ds.GroundTruth()
	pred := ds.Predicted()
	cm := BuildConfusionMatrix(truth, pred)

	ev := &models.Evaluation{
		Topic:      topic,
		Source:     source,
		SampleSize: ds.Len(),
		Accuracy:   Accuracy(truth, pred),
		Confusion:  cm,
		Classes:    ClassificationReport(cm),
	}

	scope := fmt.Sprintf("%s/%s", topic, source)
	scores, err := probabilityColumns(ds)
	if err != nil {
		ev.Notices = append(ev.Notices, models.Notice{
			Level:   models.NoticeInfo,
			Scope:   scope,
			Message: "class probabilities not available; AUC reported as 0",
		})
		e.logger.Debug("[metrics] %s: %v", scope, err)
		return ev, nil
	}

	for i, cls := range models.Classes {
		positive := make([]bool, len(truth))
		for j, t := range truth {
			positive[j] = t == cls
		}
		curve, auc, err := OneVsRest(positive, scores[i])
		if err != nil {
			e.logger.Warn("[metrics] %s: ROC for class %s failed: %v", scope, cls, err)
			ev.Notices = append(ev.Notices, models.Notice{
				Level:   models.NoticeWarning,
				Scope:   scope,
				Message: fmt.Sprintf("ROC for class %s could not be computed: %v", cls, err),
			})
			continue
		}
		ev.Classes[i].AUC = auc
		for _, pt := range curve {
			ev.ROC = append(ev.ROC, models.ROCPoint{FPR: pt.FPR, TPR: pt.TPR, Class: cls})
		}
	}

	return ev, nil
}

// probabilityColumns extracts the three score columns in class order. It
// fails when the dataset has no probability columns or any row lacks them.
func probabilityColumns(ds *models.Dataset) ([3][]float64, error) {
	var cols [3][]float64
	if !ds.HasProbabilities {
		return cols, models.ErrNoProbabilities
	}
	for i := range cols {
		cols[i] = make([]float64, ds.Len())
	}
	for j, r := range ds.Records {
		if r.Probabilities == nil {
			return cols, fmt.Errorf("%w: row %d has no probability vector", models.ErrNoProbabilities, j)
		}
		for i, cls := range models.Classes {
			cols[i][j] = r.Probabilities.For(cls)
		}
	}
	return cols, nil
}

// IsSkippable reports whether err means the sample was unusable rather
// than a bug.
func IsSkippable(err error) bool {
	return errors.Is(err, models.ErrMissingGroundTruth) ||
		errors.Is(err, models.ErrMissingPredicted) ||
		errors.Is(err, models.ErrEmptyDataset)
}

package models

import "time"

// ConfusionMatrix is indexed [ground truth][predicted] over Classes.
type ConfusionMatrix [3][3]int

// Total returns the sum of all cells.
func (m ConfusionMatrix) Total() int {
	var n int
	for i := range m {
		for j := range m[i] {
			n += m[i][j]
		}
	}
	return n
}

// Trace returns the number of correct predictions.
func (m ConfusionMatrix) Trace() int {
	return m[0][0] + m[1][1] + m[2][2]
}

// RowSum returns the number of records whose ground truth is class i.
func (m ConfusionMatrix) RowSum(i int) int {
	return m[i][0] + m[i][1] + m[i][2]
}

// ColSum returns the number of records predicted as class i.
func (m ConfusionMatrix) ColSum(i int) int {
	return m[0][i] + m[1][i] + m[2][i]
}

// ClassMetrics holds the per-class statistics of one evaluation.
type ClassMetrics struct {
	Class       Label   `json:"class"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1          float64 `json:"f1_score"`
	Support     int     `json:"support"`
	Specificity float64 `json:"specificity"`
	AUC         float64 `json:"auc"`
}

// ROCPoint is one point of a one-vs-rest ROC curve.
type ROCPoint struct {
	FPR   float64 `json:"fpr"`
	TPR   float64 `json:"tpr"`
	Class Label   `json:"class"`
}

// Evaluation is the full metric set for one (topic, source type) sample.
type Evaluation struct {
	Topic      Topic           `json:"topic"`
	Source     SourceType      `json:"source"`
	SampleSize int             `json:"sample_size"`
	Accuracy   float64         `json:"accuracy"`
	Confusion  ConfusionMatrix `json:"confusion"`
	Classes    [3]ClassMetrics `json:"classes"`
	ROC        []ROCPoint      `json:"roc,omitempty"`
	Notices    []Notice        `json:"notices,omitempty"`
}

// Records flattens the evaluation into one MetricRecord per class.
func (e *Evaluation) Records() []MetricRecord {
	out := make([]MetricRecord, 0, len(e.Classes))
	for _, c := range e.Classes {
		out = append(out, MetricRecord{
			Topic:       e.Topic,
			Source:      e.Source,
			Class:       c.Class,
			Precision:   c.Precision,
			Recall:      c.Recall,
			F1:          c.F1,
			Specificity: c.Specificity,
			AUC:         c.AUC,
			Accuracy:    e.Accuracy,
		})
	}
	return out
}

// MetricRecord is one display row keyed by (topic, source, class). Accuracy
// is a sample-level value replicated onto every class row.
type MetricRecord struct {
	Topic       Topic      `json:"topic"`
	Source      SourceType `json:"source"`
	Class       Label      `json:"class"`
	Precision   float64    `json:"precision"`
	Recall      float64    `json:"recall"`
	F1          float64    `json:"f1_score"`
	Specificity float64    `json:"specificity"`
	AUC         float64    `json:"auc"`
	Accuracy    float64    `json:"accuracy"`
}

// EvaluationReport collects the evaluations that could be produced across
// topics together with the notices for the ones that were skipped.
type EvaluationReport struct {
	Evaluations []*Evaluation `json:"evaluations"`
	Notices     []Notice      `json:"notices,omitempty"`
}

// Records returns all metric records of the report in evaluation order.
func (r *EvaluationReport) Records() []MetricRecord {
	var out []MetricRecord
	for _, e := range r.Evaluations {
		out = append(out, e.Records()...)
	}
	return out
}

// MetricScore is a long-format row for grouped bar charts.
type MetricScore struct {
	Topic  Topic      `json:"topic"`
	Source SourceType `json:"source"`
	Class  Label      `json:"class"`
	Metric string     `json:"metric"`
	Score  float64    `json:"score"`
}

// ConfusionCell is a long-format row for confusion heatmaps.
type ConfusionCell struct {
	GroundTruth Label `json:"ground_truth"`
	Predicted   Label `json:"predicted"`
	Count       int   `json:"count"`
}

// ConfusionSummary holds the headline numbers shown beside a heatmap.
type ConfusionSummary struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Errors  int     `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// Summary holds the mean scores of a filtered set of metric records.
type Summary struct {
	Accuracy  float64 `json:"accuracy"`
	F1        float64 `json:"f1_score"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Rows      int     `json:"rows"`
}

// VolumeSummary holds the class counts of one full corpus.
type VolumeSummary struct {
	Topic  Topic      `json:"topic"`
	Source SourceType `json:"source"`
	Total  int        `json:"total"`
	NEG    int        `json:"neg"`
	NEU    int        `json:"neu"`
	POS    int        `json:"pos"`
}

// Count returns the number of records in class l.
func (v VolumeSummary) Count(l Label) int {
	switch l {
	case NEG:
		return v.NEG
	case NEU:
		return v.NEU
	case POS:
		return v.POS
	}
	return 0
}

// Share returns the fraction of records in class l, 0 for an empty corpus.
func (v VolumeSummary) Share(l Label) float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Count(l)) / float64(v.Total)
}

// Overview is the corpus-wide volume table.
type Overview struct {
	Volumes []VolumeSummary `json:"volumes"`
	Notices []Notice        `json:"notices,omitempty"`
}

// MonthlyCount is a record count for one calendar month.
type MonthlyCount struct {
	Month  string     `json:"month"`
	Topic  Topic      `json:"topic"`
	Source SourceType `json:"source"`
	Class  Label      `json:"class,omitempty"`
	Count  int        `json:"count"`
}

// ClassTrend compares the latest six months with the six before them.
type ClassTrend struct {
	Class     Label   `json:"class"`
	Recent    int     `json:"recent"`
	Previous  int     `json:"previous"`
	Variation float64 `json:"variation_pct"`
}

// Trend is the per-class trend of one full corpus.
type Trend struct {
	Topic   Topic        `json:"topic"`
	Source  SourceType   `json:"source"`
	Latest  time.Time    `json:"latest"`
	Classes []ClassTrend `json:"classes"`
}

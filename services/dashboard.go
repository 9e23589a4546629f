package services

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// Metric names used in long-format tables.
const (
	MetricPrecision   = "Precision"
	MetricRecall      = "Recall"
	MetricF1          = "F1-Score"
	MetricSpecificity = "Specificity"
	MetricAUC         = "AUC"
	MetricAccuracy    = "Accuracy"
)

// DefaultMetrics are the metrics charted side by side.
var DefaultMetrics = []string{MetricPrecision, MetricRecall, MetricF1}

// Dashboard wires the loader, normalizer, aggregator and metrics engine
// into the tables the presentation layer consumes.
type Dashboard struct {
	loader      DatasetLoader
	normalizer  *Normalizer
	engine      *MetricsEngine
	aggregator  *Aggregator
	evolution   *Evolution
	logger      *utils.Logger
	maxWorkers  int
	rateLimitMs int
}

// NewDashboard builds a Dashboard over loader. maxWorkers and rateLimitMs
// configure Warm.
func NewDashboard(loader DatasetLoader, logger *utils.Logger, maxWorkers, rateLimitMs int) *Dashboard {
	normalizer := NewNormalizer(logger)
	return &Dashboard{
		loader:      loader,
		normalizer:  normalizer,
		engine:      NewMetricsEngine(logger),
		aggregator:  NewAggregator(loader, normalizer, logger),
		evolution:   NewEvolution(loader, normalizer, logger),
		logger:      logger,
		maxWorkers:  maxWorkers,
		rateLimitMs: rateLimitMs,
	}
}

func (d *Dashboard) Evolution() *Evolution { return d.evolution }

// Topics returns the registered topics in display order.
func (d *Dashboard) Topics() []models.Topic { return d.loader.Registry().Topics() }

// Overview returns corpus volumes for every topic and source type.
func (d *Dashboard) Overview() *models.Overview {
	return d.aggregator.Overview()
}

// TopicOverview returns the post and comment volumes of one topic.
func (d *Dashboard) TopicOverview(topic models.Topic) (*models.Overview, error) {
	volumes, notices, err := d.aggregator.TopicVolume(topic)
	if err != nil {
		return nil, err
	}
	return &models.Overview{Volumes: volumes, Notices: notices}, nil
}

// Evaluate computes the metric set of one annotated sample.
func (d *Dashboard) Evaluate(topic models.Topic, source models.SourceType) (*models.Evaluation, error) {
	id := models.DatasetID{Topic: topic, Source: source, Mode: models.ModeSample}
	raw, err := d.loader.Load(id)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	ev, err := d.engine.Evaluate(topic, source, d.normalizer.Normalize(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %s: %w", id, err)
	}
	return ev, nil
}

// EvaluateTopic evaluates the post and comment samples of one topic.
// Unusable samples are skipped with a notice.
func (d *Dashboard) EvaluateTopic(topic models.Topic) (*models.EvaluationReport, error) {
	if !d.loader.Registry().HasTopic(topic) {
		return nil, fmt.Errorf("dashboard: %w: %q", models.ErrUnknownTopic, topic)
	}
	report := &models.EvaluationReport{}
	d.evaluateInto(report, topic)
	return report, nil
}

// EvaluateAll evaluates every registered sample. It never fails: a sample
// that cannot be loaded or lacks required columns is left out of the
// report and described by a notice.
func (d *Dashboard) EvaluateAll() *models.EvaluationReport {
	report := &models.EvaluationReport{}
	for _, topic := range d.loader.Registry().Topics() {
		d.evaluateInto(report, topic)
	}
	return report
}

func (d *Dashboard) evaluateInto(report *models.EvaluationReport, topic models.Topic) {
	for _, src := range models.SourceTypes {
		ev, err := d.Evaluate(topic, src)
		if err != nil {
			d.logger.Warn("[dashboard] skipping %s/%s: %v", topic, src, err)
			report.Notices = append(report.Notices, models.Notice{
				Level:   models.NoticeWarning,
				Scope:   fmt.Sprintf("%s/%s", topic, src),
				Message: fmt.Sprintf("evaluation skipped: %v", err),
			})
			continue
		}
		report.Evaluations = append(report.Evaluations, ev)
		report.Notices = append(report.Notices, ev.Notices...)
	}
}

// Warm loads every registered dataset on the worker pool so the first
// request is served from cache. It returns the load errors.
func (d *Dashboard) Warm() []error {
	var errs utils.ErrorList
	pool := utils.NewWorkerPool(d.maxWorkers, d.rateLimitMs)

	ids := d.loader.Registry().Datasets()
	for _, id := range ids {
		id := id
		pool.Submit(func() {
			if _, err := d.loader.Load(id); err != nil {
				d.logger.Warn("[dashboard] warm %s: %v", id, err)
				errs.Add(err)
			}
		})
	}
	pool.Wait()

	d.logger.Info("[dashboard] warmed %d/%d datasets", len(ids)-errs.Len(), len(ids))
	return errs.Errors()
}

type resetter interface {
	Reset()
}

// Refresh drops cached tables, when the loader caches, and warms again.
func (d *Dashboard) Refresh() []error {
	if r, ok := d.loader.(resetter); ok {
		r.Reset()
	}
	return d.Warm()
}

// FilterRecords keeps the records matching topic and source. An empty
// filter value matches everything.
func FilterRecords(records []models.MetricRecord, topic models.Topic, source models.SourceType) []models.MetricRecord {
	var out []models.MetricRecord
	for _, r := range records {
		if topic != "" && r.Topic != topic {
			continue
		}
		if source != "" && r.Source != source {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MetricLong reshapes records into (topic, source, class, metric, score)
// rows. With no metrics given it uses DefaultMetrics.
func MetricLong(records []models.MetricRecord, metrics ...string) []models.MetricScore {
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	out := make([]models.MetricScore, 0, len(records)*len(metrics))
	for _, r := range records {
		for _, m := range metrics {
			score, ok := metricValue(r, m)
			if !ok {
				continue
			}
			out = append(out, models.MetricScore{
				Topic:  r.Topic,
				Source: r.Source,
				Class:  r.Class,
				Metric: m,
				Score:  score,
			})
		}
	}
	return out
}

func metricValue(r models.MetricRecord, metric string) (float64, bool) {
	switch metric {
	case MetricPrecision:
		return r.Precision, true
	case MetricRecall:
		return r.Recall, true
	case MetricF1:
		return r.F1, true
	case MetricSpecificity:
		return r.Specificity, true
	case MetricAUC:
		return r.AUC, true
	case MetricAccuracy:
		return r.Accuracy, true
	}
	return 0, false
}

// ConfusionCells flattens a matrix into heatmap rows in class order.
func ConfusionCells(m models.ConfusionMatrix) []models.ConfusionCell {
	out := make([]models.ConfusionCell, 0, 9)
	for i, gt := range models.Classes {
		for j, pred := range models.Classes {
			out = append(out, models.ConfusionCell{GroundTruth: gt, Predicted: pred, Count: m[i][j]})
		}
	}
	return out
}

// SummarizeConfusion returns total, correct, errors and hit rate.
func SummarizeConfusion(m models.ConfusionMatrix) models.ConfusionSummary {
	total := m.Total()
	correct := m.Trace()
	return models.ConfusionSummary{
		Total:   total,
		Correct: correct,
		Errors:  total - correct,
		HitRate: ratio(correct, total),
	}
}

// Summarize averages accuracy, F1, precision and recall over the records
// matching topic and source.
func Summarize(records []models.MetricRecord, topic models.Topic, source models.SourceType) models.Summary {
	rows := FilterRecords(records, topic, source)
	if len(rows) == 0 {
		return models.Summary{}
	}
	acc := make([]float64, len(rows))
	f1 := make([]float64, len(rows))
	prec := make([]float64, len(rows))
	rec := make([]float64, len(rows))
	for i, r := range rows {
		acc[i], f1[i], prec[i], rec[i] = r.Accuracy, r.F1, r.Precision, r.Recall
	}
	return models.Summary{
		Accuracy:  stat.Mean(acc, nil),
		F1:        stat.Mean(f1, nil),
		Precision: stat.Mean(prec, nil),
		Recall:    stat.Mean(rec, nil),
		Rows:      len(rows),
	}
}

// ROCSeries returns the per-class ROC points of ev and, separately, the
// random-classifier diagonal with an empty class.
func ROCSeries(ev *models.Evaluation) (curves, diagonal []models.ROCPoint) {
	curves = ev.ROC
	for _, pt := range ReferenceDiagonal() {
		diagonal = append(diagonal, models.ROCPoint{FPR: pt.FPR, TPR: pt.TPR})
	}
	return curves, diagonal
}

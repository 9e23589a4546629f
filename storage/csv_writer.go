package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"sentiment-dashboard/models"
)

// CSVWriter writes one derived table as CSV.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{closer: f, writer: csv.NewWriter(f)}, nil
}

// NewCSVStream wraps an arbitrary writer, e.g. an HTTP response.
func NewCSVStream(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

// WriteMetricRecords writes one row per (topic, source, class).
func (c *CSVWriter) WriteMetricRecords(rows []models.MetricRecord) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			string(r.Topic), string(r.Source), string(r.Class),
			ff(r.Precision), ff(r.Recall), ff(r.F1), ff(r.Specificity), ff(r.AUC), ff(r.Accuracy),
		})
	}
	return c.writeTable([]string{"topic", "source", "class", "precision", "recall", "f1_score", "specificity", "auc", "accuracy"}, out)
}

// WriteMetricScores writes the long-format metric table.
func (c *CSVWriter) WriteMetricScores(rows []models.MetricScore) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{string(r.Topic), string(r.Source), string(r.Class), r.Metric, ff(r.Score)})
	}
	return c.writeTable([]string{"topic", "source", "class", "metric", "score"}, out)
}

// WriteConfusionCells writes a heatmap table.
func (c *CSVWriter) WriteConfusionCells(cells []models.ConfusionCell) error {
	out := make([][]string, 0, len(cells))
	for _, cell := range cells {
		out = append(out, []string{string(cell.GroundTruth), string(cell.Predicted), strconv.Itoa(cell.Count)})
	}
	return c.writeTable([]string{"ground_truth", "predicted", "count"}, out)
}

// WriteVolumes writes the corpus volume table.
func (c *CSVWriter) WriteVolumes(volumes []models.VolumeSummary) error {
	out := make([][]string, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, []string{
			string(v.Topic), string(v.Source),
			strconv.Itoa(v.Total), strconv.Itoa(v.NEG), strconv.Itoa(v.NEU), strconv.Itoa(v.POS),
		})
	}
	return c.writeTable([]string{"topic", "source", "total", "neg", "neu", "pos"}, out)
}

func (c *CSVWriter) writeTable(header []string, rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := c.writer.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

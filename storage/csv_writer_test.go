package storage

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"sentiment-dashboard/models"
)

func TestCSVStreamMetricRecords(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVStream(&buf)

	rows := []models.MetricRecord{
		{Topic: models.TopicSTF, Source: models.SourcePost, Class: models.NEG, Precision: 1, Recall: 0.5, F1: 2.0 / 3.0, Specificity: 1, AUC: 0, Accuracy: 0.75},
	}
	if err := w.WriteMetricRecords(rows); err != nil {
		t.Fatalf("WriteMetricRecords error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows: got %d, want 2 (header + 1)", len(records))
	}
	want := []string{"STF", "post", "NEG", "1.0000", "0.5000", "0.6667", "1.0000", "0.0000", "0.7500"}
	for i := range want {
		if records[1][i] != want[i] {
			t.Errorf("field %d = %q; want %q", i, records[1][i], want[i])
		}
	}
}

func TestCSVWriterCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "confusion.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter error: %v", err)
	}

	cells := []models.ConfusionCell{
		{GroundTruth: models.NEG, Predicted: models.NEU, Count: 3},
	}
	if err := w.WriteConfusionCells(cells); err != nil {
		t.Fatalf("WriteConfusionCells error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "ground_truth,predicted,count\nNEG,NEU,3\n"
	if string(data) != want {
		t.Errorf("file content = %q; want %q", data, want)
	}
}

package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"sentiment-dashboard/config"
	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// timestampLayouts are tried in order when parsing the date column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// CSVSource reads corpora from delimited files listed in the registry.
type CSVSource struct {
	registry *config.Registry
	logger   *utils.Logger
}

// NewCSVSource creates a CSVSource resolving files through registry.
func NewCSVSource(registry *config.Registry, logger *utils.Logger) *CSVSource {
	return &CSVSource{registry: registry, logger: logger}
}

// Fetch parses the file registered for id.
func (s *CSVSource) Fetch(id models.DatasetID) (*models.RawDataset, error) {
	file, err := s.registry.File(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", file.Path, err)
	}
	defer f.Close()

	ds, err := ParseCSV(f, file.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("csv: parse %q: %w", file.Path, err)
	}
	ds.ID = id
	ds.File = file.Name

	if ds.SkippedRows > 0 {
		s.logger.Warn("[loader] %s: skipped %d malformed rows", file.Name, ds.SkippedRows)
	}
	s.logger.Debug("[loader] %s: %d rows, columns %v", file.Name, ds.Len(), ds.Columns)
	return ds, nil
}

// ParseCSV reads a delimited table with a header row. Rows whose field
// count differs from the header, or that fail to parse, are skipped.
func ParseCSV(r io.Reader, delimiter rune) (*models.RawDataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &models.RawDataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	layout := resolveColumns(header)
	ds := &models.RawDataset{
		Columns:          layout.kept,
		HasGroundTruth:   layout.groundTruth >= 0,
		HasPredicted:     layout.predicted >= 0,
		HasProbabilities: layout.hasProbabilities(),
		HasTimestamp:     layout.timestamp >= 0,
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.SkippedRows++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) != len(header) {
			ds.SkippedRows++
			continue
		}
		ds.Records = append(ds.Records, buildRecord(row, layout))
	}

	return ds, nil
}

func buildRecord(row []string, layout columnLayout) models.RawRecord {
	var rec models.RawRecord
	if layout.groundTruth >= 0 {
		rec.GroundTruth = row[layout.groundTruth]
	}
	if layout.predicted >= 0 {
		rec.Predicted = row[layout.predicted]
	}
	if layout.hasProbabilities() {
		neg, okNeg := parseProbability(row[layout.probs[0]])
		neu, okNeu := parseProbability(row[layout.probs[1]])
		pos, okPos := parseProbability(row[layout.probs[2]])
		if okNeg && okNeu && okPos {
			rec.Probabilities = &models.ClassProbabilities{NEG: neg, NEU: neu, POS: pos}
		}
	}
	if layout.timestamp >= 0 {
		rec.Timestamp = ParseTimestamp(row[layout.timestamp])
	}
	return rec
}

// parseProbability accepts both "0.85" and the decimal-comma "0,85".
func parseProbability(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v, err = strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return 0, false
		}
	}
	if v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

// ParseTimestamp parses the formats seen in the corpora, including unix
// seconds. Unparsable values yield the zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return time.Unix(int64(secs), 0).UTC()
	}
	return time.Time{}
}

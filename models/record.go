package models

import "time"

// Label is one class of the three-way sentiment taxonomy.
type Label string

const (
	NEG Label = "NEG"
	NEU Label = "NEU"
	POS Label = "POS"
)

// Classes is the fixed class order used for every matrix and per-class table.
var Classes = [3]Label{NEG, NEU, POS}

// Index returns the position of l in Classes, or -1 for a non-canonical label.
func (l Label) Index() int {
	switch l {
	case NEG:
		return 0
	case NEU:
		return 1
	case POS:
		return 2
	}
	return -1
}

// Valid reports whether l is one of NEG, NEU or POS.
func (l Label) Valid() bool { return l.Index() >= 0 }

// Topic is one of the analysed discussion subjects.
type Topic string

const (
	TopicSTF       Topic = "STF"
	TopicAuxilio   Topic = "Auxílio Brasil"
	TopicVacinacao Topic = "Vacinação"
)

// SourceType distinguishes posts from comments.
type SourceType string

const (
	SourcePost    SourceType = "post"
	SourceComment SourceType = "comment"
)

// SourceTypes lists source types in display order.
var SourceTypes = [2]SourceType{SourcePost, SourceComment}

// LoadMode selects between the full (predicted only) and the sample
// (manually annotated) corpus of a topic/source pair.
type LoadMode string

const (
	ModeFull   LoadMode = "full"
	ModeSample LoadMode = "sample"
)

// DatasetID identifies one corpus file.
type DatasetID struct {
	Topic  Topic
	Source SourceType
	Mode   LoadMode
}

func (id DatasetID) String() string {
	return string(id.Topic) + "/" + string(id.Source) + "/" + string(id.Mode)
}

// RawRecord is one parsed row before label normalization.
type RawRecord struct {
	GroundTruth   string
	Predicted     string
	Probabilities *ClassProbabilities
	Timestamp     time.Time
}

// RawDataset is the tabular output of a dataset source. Column flags report
// which logical columns were found in the header.
type RawDataset struct {
	ID      DatasetID
	File    string
	Columns []string

	HasGroundTruth   bool
	HasPredicted     bool
	HasProbabilities bool
	HasTimestamp     bool

	Records     []RawRecord
	SkippedRows int
}

// Len returns the number of parsed rows.
func (d *RawDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// ClassProbabilities holds the classifier's probability vector for one record.
type ClassProbabilities struct {
	NEG float64 `json:"NEG"`
	NEU float64 `json:"NEU"`
	POS float64 `json:"POS"`
}

// For returns the probability assigned to class l.
func (p ClassProbabilities) For(l Label) float64 {
	switch l {
	case NEG:
		return p.NEG
	case NEU:
		return p.NEU
	case POS:
		return p.POS
	}
	return 0
}

// Record is a normalized row: both labels are canonical.
type Record struct {
	GroundTruth   Label
	Predicted     Label
	Probabilities *ClassProbabilities
	Timestamp     time.Time
}

// Dataset is a normalized, immutable table.
type Dataset struct {
	ID               DatasetID
	HasGroundTruth   bool
	HasPredicted     bool
	HasProbabilities bool
	HasTimestamp     bool
	Records          []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// GroundTruth returns the ground-truth column.
func (d *Dataset) GroundTruth() []Label {
	out := make([]Label, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.GroundTruth
	}
	return out
}

// Predicted returns the predicted-label column.
func (d *Dataset) Predicted() []Label {
	out := make([]Label, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Predicted
	}
	return out
}

// Notice is a user-visible message about degraded output.
type Notice struct {
	Level   string `json:"level"`
	Scope   string `json:"scope"`
	Message string `json:"message"`
}

const (
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

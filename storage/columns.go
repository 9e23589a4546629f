package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	columnGroundTruth = "rotulo"
	columnPredicted   = "classe sentimento"
	columnProbNEG     = "prob_neg"
	columnProbNEU     = "prob_neu"
	columnProbPOS     = "prob_pos"
)

// renamedColumns maps known misspelled headers to their canonical name.
var renamedColumns = map[string]string{
	"Classe Sentimeto": "Classe Sentimento",
}

// droppedColumns are never carried into the parsed table.
var droppedColumns = map[string]struct{}{
	"Unnamed: 0.1": {},
	"Unnamed: 0":   {},
	"Idioma":       {},
	"Subreddit":    {},
	"Link":         {},
}

// timestampHints are substrings that mark a header as the date column.
var timestampHints = []string{"date", "data", "created", "timestamp"}

// FoldAccents strips combining marks: "Vacinação" becomes "Vacinacao".
// Input that fails to transform is returned unchanged.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// foldHeader lower-cases a header, strips accents and collapses spaces so
// "Rótulo " and "rotulo" compare equal.
func foldHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(FoldAccents(h))), " ")
}

// columnLayout records the index of every logical column, -1 when absent.
type columnLayout struct {
	kept        []string
	groundTruth int
	predicted   int
	probs       [3]int
	timestamp   int
}

func (l columnLayout) hasProbabilities() bool {
	return l.probs[0] >= 0 && l.probs[1] >= 0 && l.probs[2] >= 0
}

// resolveColumns cleans the header row and locates logical columns.
func resolveColumns(header []string) columnLayout {
	layout := columnLayout{groundTruth: -1, predicted: -1, probs: [3]int{-1, -1, -1}, timestamp: -1}

	for i, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		if canonical, ok := renamedColumns[name]; ok {
			name = canonical
		}
		if _, drop := droppedColumns[name]; drop {
			continue
		}
		layout.kept = append(layout.kept, name)

		folded := foldHeader(name)
		switch folded {
		case columnGroundTruth:
			setFirst(&layout.groundTruth, i)
			continue
		case columnPredicted:
			setFirst(&layout.predicted, i)
			continue
		case columnProbNEG:
			setFirst(&layout.probs[0], i)
			continue
		case columnProbNEU:
			setFirst(&layout.probs[1], i)
			continue
		case columnProbPOS:
			setFirst(&layout.probs[2], i)
			continue
		}
		if layout.timestamp < 0 {
			for _, hint := range timestampHints {
				if strings.Contains(folded, hint) {
					layout.timestamp = i
					break
				}
			}
		}
	}
	return layout
}

func setFirst(dst *int, i int) {
	if *dst < 0 {
		*dst = i
	}
}

package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"sentiment-dashboard/models"
)

// CurvePoint is one (FPR, TPR) pair of a ROC curve.
type CurvePoint struct {
	FPR float64
	TPR float64
}

// OneVsRest computes the ROC curve of scores against the binary labels in
// positive and the trapezoidal area under it. A class without positive or
// without negative instances returns ErrDegenerateClass. Panics raised by
// the numeric routines are returned as errors.
func OneVsRest(positive []bool, scores []float64) (curve []CurvePoint, auc float64, err error) {
	if len(positive) != len(scores) {
		return nil, 0, fmt.Errorf("roc: %d labels but %d scores", len(positive), len(scores))
	}

	var pos, neg int
	for i, p := range positive {
		if math.IsNaN(scores[i]) || math.IsInf(scores[i], 0) {
			return nil, 0, fmt.Errorf("roc: score %d is not finite", i)
		}
		if p {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, 0, models.ErrDegenerateClass
	}

	defer func() {
		if r := recover(); r != nil {
			curve, auc, err = nil, 0, fmt.Errorf("roc: %v", r)
		}
	}()

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), positive...)
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	auc = integrate.Trapezoidal(fpr, tpr)

	curve = make([]CurvePoint, len(fpr))
	for i := range fpr {
		curve[i] = CurvePoint{FPR: fpr[i], TPR: tpr[i]}
	}
	return curve, auc, nil
}

// ReferenceDiagonal is the ROC of a random classifier, drawn beside the
// per-class curves.
func ReferenceDiagonal() []CurvePoint {
	return []CurvePoint{{FPR: 0, TPR: 0}, {FPR: 1, TPR: 1}}
}

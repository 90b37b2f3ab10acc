// Package keyfind estimates the key of a score from its pitch content
// (Krumhansl-Schmuckler with the Krumhansl-Kessler profiles).
package keyfind

import (
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/pitch"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var ErrNoNotes = errors.New("no notes to estimate a key from")

var majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
var minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

// Histogram sums note durations per pitch class.
func Histogram(s *model.Score) []float64 {
	h := make([]float64, 12)
	for _, part := range s.Parts {
		for _, e := range part.Events {
			if n, ok := e.(model.Note); ok {
				h[n.Pitch.Class()] += n.QuarterLength
			}
		}
	}
	return h
}

// Estimate returns the best correlated of the 24 major/minor keys.
// Ties go to the earlier candidate, majors before minors.
func Estimate(s *model.Score) (model.Key, error) {
	h := Histogram(s)
	var total float64
	for _, v := range h {
		total += v
	}
	if total == 0 {
		return model.Key{}, ErrNoNotes
	}

	best := model.Key{}
	bestR := -2.0
	rotated := make([]float64, 12)
	for _, c := range []struct {
		mode    model.Mode
		profile []float64
	}{{model.Major, majorProfile}, {model.Minor, minorProfile}} {
		for tonic := 0; tonic < 12; tonic++ {
			for pc := range rotated {
				rotated[pc] = c.profile[(pc-tonic+12)%12]
			}
			r := stat.Correlation(h, rotated, nil)
			if r > bestR {
				bestR = r
				best = model.Key{Tonic: pitch.ClassName(tonic), Mode: c.mode}
			}
		}
	}
	return best, nil
}

// Package filter decides which scores make it into the dataset.
package filter

import "github.com/jsphweid/chorale/model"

// HasAcceptableDurations is true iff every note and rest lasts exactly one
// of the acceptable quarter lengths.
func HasAcceptableDurations(s *model.Score, acceptable []float64) bool {
	allowed := make(map[float64]bool, len(acceptable))
	for _, d := range acceptable {
		allowed[d] = true
	}
	for _, part := range s.Parts {
		for _, e := range part.Events {
			if !allowed[e.Duration()] {
				return false
			}
		}
	}
	return true
}

func HasVoiceCount(s *model.Score, n int) bool {
	return len(s.Parts) == n
}

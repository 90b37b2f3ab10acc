// Package normalize transposes scores to C major or A minor.
package normalize

import (
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/pitch"
	"github.com/pkg/errors"
)

var ErrUnsupportedMode = errors.New("unsupported key mode")

type KeyEstimator interface {
	EstimateKey(s *model.Score) (model.Key, error)
}

type EstimatorFunc func(s *model.Score) (model.Key, error)

func (f EstimatorFunc) EstimateKey(s *model.Score) (model.Key, error) {
	return f(s)
}

type Result struct {
	Key       model.Key
	Semitones int
	// true when no annotation was found and the key was estimated
	Estimated bool
}

// FindKey returns the first key annotation, looking at the parts in
// order and then at the score itself.
func FindKey(s *model.Score) (model.Key, bool) {
	for _, part := range s.Parts {
		if part.Key != nil {
			return *part.Key, true
		}
	}
	if s.Key != nil {
		return *s.Key, true
	}
	return model.Key{}, false
}

// Interval is the number of semitones from the key's tonic to C4
// (major) or A4 (minor), with the tonic spelled in octave 4. A C-flat
// tonic sits below C4 and moves up.
func Interval(k model.Key) (int, error) {
	tonic, err := pitch.Parse(k.Tonic + "4")
	if err != nil {
		return 0, errors.Wrapf(err, "key %v", k)
	}
	switch k.Mode {
	case model.Major:
		return 60 - tonic.MIDI(), nil
	case model.Minor:
		return 69 - tonic.MIDI(), nil
	}
	return 0, errors.Wrapf(ErrUnsupportedMode, "%q", k.Mode)
}

type Normalizer struct {
	Estimator KeyEstimator
}

// Normalize returns a transposed copy of s; s itself is untouched.
func (n Normalizer) Normalize(s *model.Score) (*model.Score, Result, error) {
	var res Result
	key, ok := FindKey(s)
	if !ok {
		if n.Estimator == nil {
			return nil, res, errors.New("no key annotation and no estimator")
		}
		estimated, err := n.Estimator.EstimateKey(s)
		if err != nil {
			return nil, res, errors.Wrap(err, "Could not estimate key")
		}
		key = estimated
		res.Estimated = true
	}
	res.Key = key

	semitones, err := Interval(key)
	if err != nil {
		return nil, res, err
	}
	res.Semitones = semitones

	out, err := Transpose(s, semitones)
	if err != nil {
		return nil, res, err
	}
	target := model.Key{Tonic: "C", Mode: model.Major}
	if key.Mode == model.Minor {
		target = model.Key{Tonic: "A", Mode: model.Minor}
	}
	setKeys(out, target)
	return out, res, nil
}

// Transpose moves every note of every part by semitones.
func Transpose(s *model.Score, semitones int) (*model.Score, error) {
	out := &model.Score{Title: s.Title, Key: s.Key, Parts: make([]model.Part, len(s.Parts))}
	for i, part := range s.Parts {
		events := make([]model.Event, len(part.Events))
		for j, e := range part.Events {
			switch e := e.(type) {
			case model.Note:
				p, err := e.Pitch.Transpose(semitones)
				if err != nil {
					return nil, errors.Wrapf(err, "part %v event %v", part.Name, j)
				}
				events[j] = model.Note{Pitch: p, QuarterLength: e.QuarterLength}
			case model.Rest:
				events[j] = e
			default:
				return nil, errors.Errorf("unknown event %T", e)
			}
		}
		out.Parts[i] = model.Part{Name: part.Name, Key: part.Key, Events: events}
	}
	return out, nil
}

func setKeys(s *model.Score, k model.Key) {
	for i := range s.Parts {
		if s.Parts[i].Key != nil {
			s.Parts[i].Key = &model.Key{Tonic: k.Tonic, Mode: k.Mode}
		}
	}
	if s.Key != nil {
		s.Key = &model.Key{Tonic: k.Tonic, Mode: k.Mode}
	}
}

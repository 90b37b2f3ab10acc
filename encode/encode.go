// Package encode turns scores into fixed time-step token grids.
package encode

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
)

var (
	// ErrOffGrid is returned for durations that do not fill whole time steps.
	ErrOffGrid = errors.New("duration is not a whole number of time steps")
	// ErrUnspellable is returned in symbolic mode for pitches below C0.
	// Their octave -1 would read back as a flat, so "B-1" is ambiguous.
	ErrUnspellable = errors.New("pitch has no symbolic spelling")
)

// Options control the step size and how pitches are written.
type Options struct {
	TimeStep float64
	Mode     model.TokenMode
}

// DefaultOptions encodes numeric pitches in sixteenth-note steps.
func DefaultOptions() Options {
	return Options{TimeStep: constants.DefaultTimeStep, Mode: model.Numeric}
}

// Steps is how many time steps a duration covers.
func Steps(quarterLength, timeStep float64) (int, error) {
	n := quarterLength / timeStep
	rounded := math.Round(n)
	if rounded < 1 || math.Abs(n-rounded) > 1e-9 {
		return 0, errors.Wrapf(ErrOffGrid, "%v / %v", quarterLength, timeStep)
	}
	return int(rounded), nil
}

// Symbol is the token for the first step of an event.
func Symbol(e model.Event, mode model.TokenMode) (string, error) {
	switch e := e.(type) {
	case model.Note:
		if mode == model.Symbolic {
			if e.Pitch.Octave < 0 {
				return "", errors.Wrapf(ErrUnspellable, "midi %d", e.Pitch.MIDI())
			}
			return e.Pitch.String(), nil
		}
		return strconv.Itoa(e.Pitch.MIDI()), nil
	case model.Rest:
		return constants.Rest, nil
	}
	return "", errors.Errorf("unknown event %T", e)
}

// EncodeVoice emits one symbol per event followed by a hold for every
// further time step the event lasts.
func EncodeVoice(events []model.Event, opts Options) ([]string, error) {
	var tokens []string
	for i, e := range events {
		steps, err := Steps(e.Duration(), opts.TimeStep)
		if err != nil {
			return nil, errors.Wrapf(err, "event %v", i)
		}
		symbol, err := Symbol(e, opts.Mode)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, symbol)
		for j := 1; j < steps; j++ {
			tokens = append(tokens, constants.Hold)
		}
	}
	return tokens, nil
}

// EncodeScore encodes every part. Parts that end early are padded with a
// trailing rest so all voices have the same number of steps.
func EncodeScore(s *model.Score, opts Options) ([][]string, error) {
	voices := make([][]string, len(s.Parts))
	longest := 0
	for i, part := range s.Parts {
		tokens, err := EncodeVoice(part.Events, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "part %v", part.Name)
		}
		voices[i] = tokens
		if len(tokens) > longest {
			longest = len(tokens)
		}
	}
	for i, tokens := range voices {
		if missing := longest - len(tokens); missing > 0 {
			tokens = append(tokens, constants.Rest)
			for j := 1; j < missing; j++ {
				tokens = append(tokens, constants.Hold)
			}
			voices[i] = tokens
		}
	}
	return voices, nil
}

// Format renders voices in the given layout. Voices must have equal
// length for the steps layout.
func Format(voices [][]string, layout model.Layout) (string, error) {
	switch layout {
	case model.LayoutVoices:
		lines := make([]string, len(voices))
		for i, v := range voices {
			lines[i] = strings.Join(v, " ")
		}
		return strings.Join(lines, "\n"), nil
	case model.LayoutSteps:
		if len(voices) == 0 {
			return "", nil
		}
		n := len(voices[0])
		lines := make([]string, n)
		row := make([]string, len(voices))
		for step := 0; step < n; step++ {
			for i, v := range voices {
				if len(v) != n {
					return "", errors.Errorf("voice %v has %v steps, expected %v", i, len(v), n)
				}
				row[i] = v[step]
			}
			lines[step] = strings.Join(row, " ")
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", errors.Errorf("unknown layout %q", layout)
}

func SongFilename(index int) string {
	return fmt.Sprintf("%d.txt", index)
}

// WriteSong persists an encoded song as <dir>/<index>.txt.
func WriteSong(dir string, index int, voices [][]string, layout model.Layout) (string, error) {
	text, err := Format(voices, layout)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SongFilename(index))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.Wrap(err, "Could not write encoded song")
	}
	return path, nil
}

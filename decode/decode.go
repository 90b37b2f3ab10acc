// Package decode turns encoded text back into scores.
package decode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/pitch"
	"github.com/pkg/errors"
)

var (
	// ErrLeadingHold means a voice holds a note it never started.
	ErrLeadingHold = errors.New("voice starts with a hold")
	// ErrRagged means the voices disagree on length and the trim policy
	// could not reconcile them.
	ErrRagged = errors.New("voices have unequal length")
)

// TrimPolicy says what to do with voices of unequal length.
type TrimPolicy int

const (
	// DropRaggedTail drops a short final row in the steps layout, or
	// truncates voices to the shortest one in the voices layout. Ragged
	// rows anywhere else are still errors.
	DropRaggedTail TrimPolicy = iota
	// Strict rejects any raggedness.
	Strict
)

// Options describe how the text was encoded.
type Options struct {
	Layout       model.Layout
	StepDuration float64
	Policy       TrimPolicy
}

// DefaultOptions reads the steps layout in sixteenth-note steps.
func DefaultOptions() Options {
	return Options{Layout: model.LayoutSteps, StepDuration: constants.DefaultTimeStep, Policy: DropRaggedTail}
}

type Report struct {
	// time steps thrown away by the trim policy
	Dropped int
}

// Parse splits text into voice columns. An END line or a delimiter
// ends the piece.
func Parse(text string, layout model.Layout, policy TrimPolicy) ([][]string, Report, error) {
	var report Report
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == constants.End {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if layout == model.LayoutSteps && fields[0] == constants.Delimiter {
			break
		}
		rows = append(rows, fields)
	}

	switch layout {
	case model.LayoutSteps:
		if len(rows) == 0 {
			return nil, report, nil
		}
		width := len(rows[0])
		if last := len(rows) - 1; last > 0 && len(rows[last]) != width {
			if policy == Strict {
				return nil, report, errors.Wrapf(ErrRagged, "last line has %v tokens, expected %v", len(rows[last]), width)
			}
			rows = rows[:last]
			report.Dropped++
		}
		voices := make([][]string, width)
		for i, row := range rows {
			if len(row) != width {
				return nil, report, errors.Wrapf(ErrRagged, "line %v has %v tokens, expected %v", i+1, len(row), width)
			}
			for v, tok := range row {
				voices[v] = append(voices[v], tok)
			}
		}
		return voices, report, nil

	case model.LayoutVoices:
		shortest := -1
		longest := 0
		for i, row := range rows {
			for j, tok := range row {
				if tok == constants.Delimiter {
					rows[i] = row[:j]
					break
				}
			}
			if shortest < 0 || len(rows[i]) < shortest {
				shortest = len(rows[i])
			}
			if len(rows[i]) > longest {
				longest = len(rows[i])
			}
		}
		if shortest != longest {
			if policy == Strict {
				return nil, report, errors.Wrapf(ErrRagged, "voices range from %v to %v steps", shortest, longest)
			}
			for i := range rows {
				rows[i] = rows[i][:shortest]
			}
			report.Dropped = longest - shortest
		}
		return rows, report, nil
	}
	return nil, report, errors.Errorf("unknown layout %q", layout)
}

// Event builds a note or rest from a token: a MIDI number, a spelled
// pitch like "F#3", or the rest symbol.
func Event(symbol string, quarterLength float64) (model.Event, error) {
	switch symbol {
	case constants.Rest:
		return model.Rest{QuarterLength: quarterLength}, nil
	case constants.Hold, constants.Delimiter:
		return nil, errors.Errorf("%q is not an event symbol", symbol)
	}
	if n, err := strconv.Atoi(symbol); err == nil {
		p, err := pitch.FromMIDI(n)
		if err != nil {
			return nil, err
		}
		return model.Note{Pitch: p, QuarterLength: quarterLength}, nil
	}
	p, err := pitch.Parse(symbol)
	if err != nil {
		return nil, err
	}
	return model.Note{Pitch: p, QuarterLength: quarterLength}, nil
}

// DecodeVoice folds holds into the preceding symbol. Each event lasts
// stepDuration times the number of steps it covers.
func DecodeVoice(tokens []string, stepDuration float64) ([]model.Event, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if tokens[0] == constants.Hold {
		return nil, ErrLeadingHold
	}

	var events []model.Event
	pending := tokens[0]
	count := 1
	flush := func() error {
		e, err := Event(pending, stepDuration*float64(count))
		if err != nil {
			return err
		}
		events = append(events, e)
		return nil
	}
	for _, tok := range tokens[1:] {
		if tok == constants.Hold {
			count++
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		pending = tok
		count = 1
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return events, nil
}

func VoiceName(i int) string {
	if i < len(constants.VoiceNames) {
		return constants.VoiceNames[i]
	}
	return fmt.Sprintf("Voice %d", i+1)
}

// Decode parses text and rebuilds one part per voice.
func Decode(text string, opts Options) (*model.Score, Report, error) {
	voices, report, err := Parse(text, opts.Layout, opts.Policy)
	if err != nil {
		return nil, report, err
	}
	s := &model.Score{Parts: make([]model.Part, len(voices))}
	for i, tokens := range voices {
		events, err := DecodeVoice(tokens, opts.StepDuration)
		if err != nil {
			return nil, report, errors.Wrapf(err, "voice %v", VoiceName(i))
		}
		s.Parts[i] = model.Part{Name: VoiceName(i), Events: events}
	}
	return s, report, nil
}

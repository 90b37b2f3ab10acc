// Package pitch handles letter-name pitches and their MIDI numbers.
package pitch

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidName = errors.New("invalid pitch name")
var ErrOutOfRange = errors.New("pitch out of MIDI range")

var stepClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// default spelling used when a pitch only comes with a MIDI number
var defaultSpelling = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"E", -1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"B", -1}, {"B", 0},
}

type Pitch struct {
	Step   string
	Alter  int
	Octave int
}

func FromMIDI(n int) (Pitch, error) {
	if n < 0 || n > 127 {
		return Pitch{}, errors.Wrapf(ErrOutOfRange, "midi %d", n)
	}
	s := defaultSpelling[n%12]
	return Pitch{Step: s.step, Alter: s.alter, Octave: n/12 - 1}, nil
}

func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepClasses[p.Step[0]] + p.Alter
}

func (p Pitch) Class() int {
	return mod12(stepClasses[p.Step[0]] + p.Alter)
}

// Name is the pitch without octave, e.g. "B-".
func (p Pitch) Name() string {
	return p.Step + accidental(p.Alter)
}

func (p Pitch) String() string {
	return p.Name() + strconv.Itoa(p.Octave)
}

// Transpose moves the pitch by semitones and re-spells it.
func (p Pitch) Transpose(semitones int) (Pitch, error) {
	return FromMIDI(p.MIDI() + semitones)
}

// Parse reads names like "C4", "F#3", "B-2" or "Bb2".
// The octave is required and never negative.
func Parse(s string) (Pitch, error) {
	step, alter, rest, err := parseName(s)
	if err != nil {
		return Pitch{}, err
	}
	if rest == "" {
		return Pitch{}, errors.Wrapf(ErrInvalidName, "%q has no octave", s)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 {
		return Pitch{}, errors.Wrapf(ErrInvalidName, "%q has a bad octave", s)
	}
	p := Pitch{Step: step, Alter: alter, Octave: octave}
	if m := p.MIDI(); m < 0 || m > 127 {
		return Pitch{}, errors.Wrapf(ErrOutOfRange, "%q", s)
	}
	return p, nil
}

// ParseClass reads a pitch name without octave ("G", "B-", "F#") and
// returns its pitch class 0..11.
func ParseClass(s string) (int, error) {
	step, alter, rest, err := parseName(s)
	if err != nil {
		return 0, err
	}
	if rest != "" {
		return 0, errors.Wrapf(ErrInvalidName, "%q is not a pitch class", s)
	}
	return mod12(stepClasses[step[0]] + alter), nil
}

func parseName(s string) (step string, alter int, rest string, err error) {
	if s == "" {
		return "", 0, "", errors.Wrap(ErrInvalidName, "empty")
	}
	letter := strings.ToUpper(s[:1])[0]
	if _, ok := stepClasses[letter]; !ok {
		return "", 0, "", errors.Wrapf(ErrInvalidName, "%q", s)
	}
	i := 1
Accidentals:
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			alter++
		case '-', 'b':
			alter--
		default:
			break Accidentals
		}
	}
	return string(letter), alter, s[i:], nil
}

func accidental(alter int) string {
	switch {
	case alter > 0:
		return strings.Repeat("#", alter)
	case alter < 0:
		return strings.Repeat("-", -alter)
	}
	return ""
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

// ClassName spells a pitch class with the default spelling.
func ClassName(pc int) string {
	s := defaultSpelling[mod12(pc)]
	return s.step + accidental(s.alter)
}

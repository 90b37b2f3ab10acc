// Package sample cuts excerpts out of encoded songs, mostly to prompt a
// completion model with.
package sample

import (
	"math/rand/v2"
	"path/filepath"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/corpus"
	"github.com/jsphweid/chorale/encode"
	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
)

var ErrNoSongs = errors.New("no encoded songs to sample from")

func steps(voices [][]string) int {
	if len(voices) == 0 {
		return 0
	}
	n := len(voices[0])
	for _, v := range voices[1:] {
		n = min(n, len(v))
	}
	return n
}

func window(voices [][]string, from, to int) [][]string {
	res := make([][]string, len(voices))
	for i, v := range voices {
		res[i] = v[from:to]
	}
	return res
}

// barSteps is the step count of n bars, capped a bar past total so huge
// counts cannot overflow.
func barSteps(n, total int) int {
	return min(max(n, 0), total/constants.StepsPerBar+1) * constants.StepsPerBar
}

// FirstBars keeps the first n bars (StepsPerBar steps each), or all of
// it for shorter pieces.
func FirstBars(voices [][]string, n int) [][]string {
	total := steps(voices)
	return window(voices, 0, min(total, barSteps(n, total)))
}

func LastBars(voices [][]string, n int) [][]string {
	total := steps(voices)
	return window(voices, max(total-barSteps(n, total), 0), total)
}

type Excerpt struct {
	SongFile string
	Bars     int
	Voices   [][]string
}

func (e Excerpt) Text(layout model.Layout) (string, error) {
	return encode.Format(e.Voices, layout)
}

// Seed picks a random encoded song from dir and returns its first bars
// plus the following downbeat, so a continuation starts mid-bar.
func Seed(dir string, layout model.Layout, bars int, rng *rand.Rand) (Excerpt, error) {
	paths, err := corpus.SongFiles(dir)
	if err != nil {
		return Excerpt{}, err
	}
	if len(paths) == 0 {
		return Excerpt{}, errors.Wrap(ErrNoSongs, dir)
	}
	path := paths[rng.IntN(len(paths))]
	voices, err := corpus.ReadSong(path, layout)
	if err != nil {
		return Excerpt{}, errors.Wrapf(err, "Could not read %v", path)
	}
	total := steps(voices)
	n := min(total, barSteps(bars, total)+1)
	return Excerpt{
		SongFile: filepath.Base(path),
		Bars:     bars,
		Voices:   window(voices, 0, n),
	}, nil
}

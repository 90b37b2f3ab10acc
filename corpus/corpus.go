// Package corpus concatenates encoded songs into parallel voice streams
// separated by delimiter blocks.
package corpus

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
)

var ErrRagged = errors.New("voices have unequal length")

type Corpus struct {
	Streams [][]string
	Songs   int
}

func (c *Corpus) Len() int {
	if len(c.Streams) == 0 {
		return 0
	}
	return len(c.Streams[0])
}

// Tokens flattens every stream, stream 0 first.
func (c *Corpus) Tokens() []string {
	var all []string
	for _, s := range c.Streams {
		all = append(all, s...)
	}
	return all
}

// Validate checks that every stream has the same length.
func (c *Corpus) Validate() error {
	for i, s := range c.Streams {
		if len(s) != c.Len() {
			return errors.Wrapf(ErrRagged, "stream %v has %v tokens, stream 0 has %v", i, len(s), c.Len())
		}
	}
	return nil
}

// Parse splits encoded text into voice columns.
func Parse(text string, layout model.Layout) ([][]string, error) {
	var lines [][]string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, fields)
		}
	}

	switch layout {
	case model.LayoutVoices:
		return lines, nil
	case model.LayoutSteps:
		if len(lines) == 0 {
			return nil, nil
		}
		width := len(lines[0])
		voices := make([][]string, width)
		for i, row := range lines {
			if len(row) != width {
				return nil, errors.Wrapf(ErrRagged, "line %v has %v tokens, expected %v", i+1, len(row), width)
			}
			for v, tok := range row {
				voices[v] = append(voices[v], tok)
			}
		}
		return voices, nil
	}
	return nil, errors.Errorf("unknown layout %q", layout)
}

func ReadSong(path string, layout model.Layout) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), layout)
}

// SongFiles lists the encoded songs of dir ordered by song index, then name.
func SongFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "Could not read encoded songs")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, errA := strconv.Atoi(strings.TrimSuffix(names[i], ".txt"))
		b, errB := strconv.Atoi(strings.TrimSuffix(names[j], ".txt"))
		switch {
		case errA == nil && errB == nil && a != b:
			return a < b
		case errA == nil && errB != nil:
			return true
		case errA != nil && errB == nil:
			return false
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

func delimiterBlock(n int) []string {
	block := make([]string, n)
	for i := range block {
		block[i] = constants.Delimiter
	}
	return block
}

// Assemble appends voice i of every song to stream i, each song followed
// by sequenceLength delimiter tokens.
func Assemble(dir string, sequenceLength int, layout model.Layout) (*Corpus, error) {
	paths, err := SongFiles(dir)
	if err != nil {
		return nil, err
	}
	block := delimiterBlock(sequenceLength)

	c := &Corpus{}
	for _, path := range paths {
		voices, err := ReadSong(path, layout)
		if err != nil {
			return nil, errors.Wrapf(err, "song %v", path)
		}
		if err := checkSong(voices); err != nil {
			return nil, errors.Wrapf(err, "song %v", path)
		}
		if c.Streams == nil {
			c.Streams = make([][]string, len(voices))
		}
		if len(voices) != len(c.Streams) {
			return nil, errors.Errorf("song %v has %v voices, expected %v", path, len(voices), len(c.Streams))
		}
		for i, v := range voices {
			c.Streams[i] = append(c.Streams[i], v...)
			c.Streams[i] = append(c.Streams[i], block...)
		}
		c.Songs++
	}
	return c, c.Validate()
}

func checkSong(voices [][]string) error {
	if len(voices) == 0 {
		return errors.New("no voices")
	}
	for i, v := range voices {
		if len(v) != len(voices[0]) {
			return errors.Wrapf(ErrRagged, "voice %v has %v steps, voice 0 has %v", i, len(v), len(voices[0]))
		}
		for _, tok := range v {
			if tok == constants.Delimiter {
				return errors.Errorf("voice %v contains the delimiter token %q", i, constants.Delimiter)
			}
		}
	}
	return nil
}

// Write stores the corpus in the same layout as the encoded songs.
func (c *Corpus) Write(path string, layout model.Layout) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Could not create corpus file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	switch layout {
	case model.LayoutVoices:
		for _, s := range c.Streams {
			w.WriteString(strings.Join(s, " "))
			w.WriteString("\n")
		}
	case model.LayoutSteps:
		row := make([]string, len(c.Streams))
		for step := 0; step < c.Len(); step++ {
			for i, s := range c.Streams {
				row[i] = s[step]
			}
			w.WriteString(strings.Join(row, " "))
			w.WriteString("\n")
		}
	default:
		return errors.Errorf("unknown layout %q", layout)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "Write failed for corpus file")
	}
	return f.Close()
}

func Read(path string, layout model.Layout) (*Corpus, error) {
	streams, err := ReadSong(path, layout)
	if err != nil {
		return nil, errors.Wrap(err, "Could not read corpus")
	}
	c := &Corpus{Streams: streams}
	return c, c.Validate()
}

// CountSongs counts the delimiter blocks closing songs in one stream.
func CountSongs(stream []string, sequenceLength int) int {
	var songs, run int
	for _, tok := range stream {
		if tok == constants.Delimiter {
			run++
			if run == sequenceLength {
				songs++
			}
			continue
		}
		run = 0
	}
	return songs
}

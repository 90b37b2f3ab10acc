// Package sequence slices an integer corpus into (context, next step)
// training samples on demand.
package sequence

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var ErrRagged = errors.New("streams have unequal length")

type Sample struct {
	// voices x window, sharing memory with the source streams
	Context [][]int
	// the step right after the window, one code per voice
	Target []int
}

// Generator yields the N-L samples of a corpus without materializing them.
type Generator struct {
	streams   [][]int
	window    int
	vocabSize int
}

func New(streams [][]int, window, vocabSize int) (*Generator, error) {
	if window <= 0 {
		return nil, errors.Errorf("window must be positive, got %v", window)
	}
	if len(streams) == 0 {
		return nil, errors.New("no streams")
	}
	for i, s := range streams {
		if len(s) != len(streams[0]) {
			return nil, errors.Wrapf(ErrRagged, "stream %v has %v codes, stream 0 has %v", i, len(s), len(streams[0]))
		}
		for j, code := range s {
			if code < 0 || code >= vocabSize {
				return nil, errors.Errorf("stream %v offset %v: code %v outside vocabulary of %v", i, j, code, vocabSize)
			}
		}
	}
	return &Generator{streams: streams, window: window, vocabSize: vocabSize}, nil
}

func (g *Generator) Len() int {
	n := len(g.streams[0]) - g.window
	if n < 0 {
		return 0
	}
	return n
}

func (g *Generator) Voices() int {
	return len(g.streams)
}

func (g *Generator) Sample(i int) (Sample, error) {
	if i < 0 || i >= g.Len() {
		return Sample{}, errors.Errorf("sample %v out of range [0, %v)", i, g.Len())
	}
	s := Sample{
		Context: make([][]int, len(g.streams)),
		Target:  make([]int, len(g.streams)),
	}
	for v, stream := range g.streams {
		s.Context[v] = stream[i : i+g.window : i+g.window]
		s.Target[v] = stream[i+g.window]
	}
	return s, nil
}

// Each visits every sample in order and stops at the first error.
func (g *Generator) Each(fn func(i int, s Sample) error) error {
	for i := 0; i < g.Len(); i++ {
		s, err := g.Sample(i)
		if err != nil {
			return err
		}
		if err := fn(i, s); err != nil {
			return err
		}
	}
	return nil
}

// OneHot expands a context into one window x vocabulary matrix per voice.
func (g *Generator) OneHot(s Sample) []*mat.Dense {
	res := make([]*mat.Dense, len(s.Context))
	for v, codes := range s.Context {
		m := mat.NewDense(len(codes), g.vocabSize, nil)
		for step, code := range codes {
			m.Set(step, code, 1)
		}
		res[v] = m
	}
	return res
}

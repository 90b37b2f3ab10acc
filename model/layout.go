package model

import "github.com/pkg/errors"

// Layout is how an encoded song or corpus is laid out as text.
type Layout string

const (
	// one line per voice
	LayoutVoices Layout = "voices"
	// one line per time step, one token per voice
	LayoutSteps Layout = "steps"
)

// TokenMode picks the pitch symbol written by the encoder.
type TokenMode string

const (
	Numeric  TokenMode = "numeric"
	Symbolic TokenMode = "symbolic"
)

func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case LayoutVoices, LayoutSteps:
		return l, nil
	}
	return "", errors.Errorf("unknown layout %q", s)
}

func ParseTokenMode(s string) (TokenMode, error) {
	switch m := TokenMode(s); m {
	case Numeric, Symbolic:
		return m, nil
	}
	return "", errors.Errorf("unknown token mode %q", s)
}

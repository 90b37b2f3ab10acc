// Package notation is the music-library capability the pipeline needs:
// reading scores, rendering them and estimating keys.
package notation

import (
	"bytes"

	"github.com/jsphweid/chorale/keyfind"
	"github.com/jsphweid/chorale/midi"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/musicxml"
	"github.com/pkg/errors"
)

type Format string

const (
	MIDI     Format = "midi"
	MusicXML Format = "musicxml"
)

var ErrUnknownFormat = errors.New("unknown render format")

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case MIDI, "mid", "":
		return MIDI, nil
	case MusicXML, "xml":
		return MusicXML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Ext is the file extension artifacts of this format are written with.
func (f Format) Ext() string {
	if f == MusicXML {
		return ".musicxml"
	}
	return ".mid"
}

// ContentType for HTTP responses.
func (f Format) ContentType() string {
	if f == MusicXML {
		return "application/vnd.recordare.musicxml+xml"
	}
	return "audio/midi"
}

type Library interface {
	Parse(data []byte) (*model.Score, error)
	Render(s *model.Score, f Format) ([]byte, error)
	EstimateKey(s *model.Score) (model.Key, error)
}

// Default reads and writes Standard MIDI Files and writes MusicXML.
type Default struct{}

var _ Library = Default{}

func (Default) Parse(data []byte) (*model.Score, error) {
	return midi.ParseScore(data)
}

func (Default) Render(s *model.Score, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case MIDI:
		err = midi.WriteScore(s, &buf)
	case MusicXML:
		err = musicxml.Write(s, &buf)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Could not render %v", f)
	}
	return buf.Bytes(), nil
}

func (Default) EstimateKey(s *model.Score) (model.Key, error) {
	return keyfind.Estimate(s)
}

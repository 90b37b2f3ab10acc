// Package musicxml writes the note/rest/duration subset of MusicXML 3.1
// (partwise) used for score output.
package musicxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
)

const (
	// divisions per quarter note
	Divisions      = 480
	measureLength  = 4 * Divisions
	docType        = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`
	bassClefCutoff = 55 // average MIDI number below which a part gets an F clef
)

type ScorePartwise struct {
	XMLName  xml.Name    `xml:"score-partwise"`
	Version  string      `xml:"version,attr"`
	Work     *Work       `xml:"work,omitempty"`
	PartList []ScorePart `xml:"part-list>score-part"`
	Parts    []Part      `xml:"part"`
}

type Work struct {
	Title string `xml:"work-title"`
}

type ScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

type Measure struct {
	Number     int         `xml:"number,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
	Notes      []Note      `xml:"note"`
}

type Attributes struct {
	Divisions int  `xml:"divisions"`
	Key       *Key `xml:"key,omitempty"`
	Time      Time `xml:"time"`
	Clef      Clef `xml:"clef"`
}

type Key struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type Time struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type Clef struct {
	Sign         string `xml:"sign"`
	Line         int    `xml:"line"`
	OctaveChange int    `xml:"clef-octave-change,omitempty"`
}

type Note struct {
	Rest      *struct{}  `xml:"rest,omitempty"`
	Pitch     *Pitch     `xml:"pitch,omitempty"`
	Duration  int        `xml:"duration"`
	Ties      []Tie      `xml:"tie"`
	Notations *Notations `xml:"notations,omitempty"`
}

type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type Tie struct {
	Type string `xml:"type,attr"`
}

type Notations struct {
	Tied []Tie `xml:"tied"`
}

func clefFor(p model.Part) Clef {
	var sum, n int
	for _, e := range p.Events {
		if note, ok := e.(model.Note); ok {
			sum += note.Pitch.MIDI()
			n++
		}
	}
	if n > 0 && sum/n < bassClefCutoff {
		return Clef{Sign: "F", Line: 4}
	}
	return Clef{Sign: "G", Line: 2}
}

func keyFor(s *model.Score, p model.Part) *Key {
	k := p.Key
	if k == nil {
		k = s.Key
	}
	if k == nil {
		return nil
	}
	fifths, ok := k.Fifths()
	if !ok {
		return nil
	}
	return &Key{Fifths: fifths, Mode: string(k.Mode)}
}

// buildPart lays events into 4/4 measures, tying notes across barlines.
func buildPart(s *model.Score, index int) (Part, error) {
	p := s.Parts[index]
	part := Part{ID: fmt.Sprintf("P%d", index+1)}
	measure := Measure{Number: 1, Attributes: &Attributes{
		Divisions: Divisions,
		Key:       keyFor(s, p),
		Time:      Time{Beats: 4, BeatType: 4},
		Clef:      clefFor(p),
	}}
	filled := 0

	for i, e := range p.Events {
		remaining := int(math.Round(e.Duration() * Divisions))
		if remaining <= 0 {
			return part, errors.Errorf("event %v has no duration", i)
		}
		var pitch *Pitch
		switch e := e.(type) {
		case model.Note:
			pitch = &Pitch{Step: e.Pitch.Step, Alter: e.Pitch.Alter, Octave: e.Pitch.Octave}
		case model.Rest:
		default:
			return part, errors.Errorf("unknown event %T", e)
		}

		first := true
		for remaining > 0 {
			chunk := remaining
			if room := measureLength - filled; chunk > room {
				chunk = room
			}
			n := Note{Pitch: pitch, Duration: chunk}
			if pitch == nil {
				n.Rest = &struct{}{}
			} else {
				var ties []Tie
				if !first {
					ties = append(ties, Tie{Type: "stop"})
				}
				if chunk < remaining {
					ties = append(ties, Tie{Type: "start"})
				}
				if len(ties) > 0 {
					n.Ties = ties
					n.Notations = &Notations{Tied: ties}
				}
			}
			measure.Notes = append(measure.Notes, n)
			filled += chunk
			remaining -= chunk
			first = false

			if filled == measureLength {
				part.Measures = append(part.Measures, measure)
				measure = Measure{Number: measure.Number + 1}
				filled = 0
			}
		}
	}
	if len(measure.Notes) > 0 || len(part.Measures) == 0 {
		part.Measures = append(part.Measures, measure)
	}
	return part, nil
}

func Build(s *model.Score) (*ScorePartwise, error) {
	doc := &ScorePartwise{Version: "3.1"}
	if s.Title != "" {
		doc.Work = &Work{Title: s.Title}
	}
	for i, p := range s.Parts {
		part, err := buildPart(s, i)
		if err != nil {
			return nil, errors.Wrapf(err, "part %v", p.Name)
		}
		doc.PartList = append(doc.PartList, ScorePart{ID: part.ID, Name: p.Name})
		doc.Parts = append(doc.Parts, part)
	}
	return doc, nil
}

func Write(s *model.Score, w io.Writer) error {
	doc, err := Build(s)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header+docType+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "Could not encode MusicXML")
	}
	return enc.Flush()
}

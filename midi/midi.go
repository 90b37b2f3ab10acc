package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/pitch"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	Resolution = 480
	Tempo      = 120
	Velocity   = 80
)

func ReadMidiFile(filepath string) (*model.Score, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("Error reading midi file... %w", err)
	}
	return ParseScore(dat)
}

type heldNote struct {
	key        uint8
	start, end uint64
}

type track struct {
	name  string
	key   *model.Key
	notes []heldNote
	end   uint64
}

func readTrack(t smf.Track) track {
	var res track
	var absTicks uint64
	open := make(map[uint8]uint64)
	closeNote := func(key uint8) {
		if start, ok := open[key]; ok {
			res.notes = append(res.notes, heldNote{key: key, start: start, end: absTicks})
			delete(open, key)
		}
	}

	for _, evt := range t {
		absTicks += uint64(evt.Delta)
		var ch, key, vel uint8
		switch {
		case evt.Message.GetNoteOn(&ch, &key, &vel):
			if vel == 0 {
				closeNote(key)
			} else {
				closeNote(key)
				open[key] = absTicks
			}
		case evt.Message.GetNoteOff(&ch, &key, &vel):
			closeNote(key)
		default:
			var name string
			if evt.Message.GetMetaTrackName(&name) && res.name == "" {
				res.name = name
			}
			if k, ok := keySignature(evt.Message); ok && res.key == nil {
				res.key = &k
			}
		}
	}
	// dangling notes end with the track
	for key := range open {
		closeNote(key)
	}
	res.end = absTicks
	sort.Slice(res.notes, func(i, j int) bool {
		return res.notes[i].start < res.notes[j].start
	})
	return res
}

// ParseScore reads a standard MIDI file with one voice per note-bearing
// track. Silence between notes becomes rests; a key signature on a track
// without notes becomes the score's key.
func ParseScore(dat []byte) (s *model.Score, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	mf, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("Error parsing midi file... %w", err)
	}
	ticks, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("only metric time formats are supported")
	}
	ppq := float64(ticks)

	res := &model.Score{}
	for _, t := range mf.Tracks {
		tr := readTrack(t)
		if len(tr.notes) == 0 {
			if tr.key != nil && res.Key == nil {
				res.Key = tr.key
			}
			if tr.name != "" && res.Title == "" {
				res.Title = tr.name
			}
			continue
		}
		part, err := buildPart(tr, ppq)
		if err != nil {
			return nil, err
		}
		if part.Name == "" {
			part.Name = voiceName(len(res.Parts))
		}
		res.Parts = append(res.Parts, part)
	}
	return res, nil
}

func buildPart(tr track, ppq float64) (model.Part, error) {
	part := model.Part{Name: tr.name, Key: tr.key}
	ql := func(ticks uint64) float64 { return float64(ticks) / ppq }

	var cursor uint64
	for _, n := range tr.notes {
		if n.start < cursor {
			// overlapping note in one voice: cut the previous one short
			last := len(part.Events) - 1
			prev, ok := part.Events[last].(model.Note)
			if !ok {
				continue
			}
			cut := prev.QuarterLength - ql(cursor-n.start)
			if cut <= 0 {
				part.Events = part.Events[:last]
			} else {
				prev.QuarterLength = cut
				part.Events[last] = prev
			}
			cursor = n.start
		}
		if n.start > cursor {
			part.Events = append(part.Events, model.Rest{QuarterLength: ql(n.start - cursor)})
		}
		p, err := pitch.FromMIDI(int(n.key))
		if err != nil {
			return part, err
		}
		part.Events = append(part.Events, model.Note{Pitch: p, QuarterLength: ql(n.end - n.start)})
		cursor = n.end
	}
	if tr.end > cursor {
		part.Events = append(part.Events, model.Rest{QuarterLength: ql(tr.end - cursor)})
	}
	return part, nil
}

func voiceName(i int) string {
	if i < len(constants.VoiceNames) {
		return constants.VoiceNames[i]
	}
	return fmt.Sprintf("Voice %d", i+1)
}

func toTicks(quarterLength float64) uint32 {
	return uint32(quarterLength*Resolution + 0.5)
}

// WriteScore writes a type 1 file: a conductor track followed by one
// track per part.
func WriteScore(s *model.Score, w io.Writer) error {
	mf := smf.New()
	mf.TimeFormat = smf.MetricTicks(Resolution)

	var conductor smf.Track
	if s.Title != "" {
		conductor.Add(0, smf.MetaTrackSequenceName(s.Title))
	}
	conductor.Add(0, smf.MetaTempo(Tempo))
	conductor.Add(0, smf.MetaTimeSig(4, 2, 24, 8))
	if s.Key != nil {
		if msg, ok := keySignatureMessage(*s.Key); ok {
			conductor.Add(0, msg)
		}
	}
	conductor.Close(0)
	if err := mf.Add(conductor); err != nil {
		return err
	}

	for i, part := range s.Parts {
		channel := uint8(i % 16)
		var t smf.Track
		t.Add(0, smf.MetaTrackSequenceName(part.Name))
		if part.Key != nil {
			if msg, ok := keySignatureMessage(*part.Key); ok {
				t.Add(0, msg)
			}
		}
		var delta uint32
		for _, e := range part.Events {
			switch e := e.(type) {
			case model.Note:
				key := uint8(e.Pitch.MIDI())
				t.Add(delta, gomidi.NoteOn(channel, key, Velocity))
				t.Add(toTicks(e.QuarterLength), gomidi.NoteOff(channel, key))
				delta = 0
			case model.Rest:
				delta += toTicks(e.QuarterLength)
			default:
				return fmt.Errorf("unknown event %T", e)
			}
		}
		t.Close(delta)
		if err := mf.Add(t); err != nil {
			return err
		}
	}

	_, err := mf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

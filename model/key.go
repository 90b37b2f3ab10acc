package model

import (
	"github.com/jsphweid/chorale/pitch"
	"gitlab.com/gomidi/midi/v2/smf"
)

// tonic names by number of sharps (positive) or flats (negative), -7..7
var majorTonics = []string{"C-", "G-", "D-", "A-", "E-", "B-", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
var minorTonics = []string{"A-", "E-", "B-", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}

// KeyFromFifths reads a key signature as stored in MIDI and MusicXML:
// sharps (positive) or flats (negative) plus a major or minor mode.
func KeyFromFifths(fifths int, mode Mode) (Key, bool) {
	if fifths < -7 || fifths > 7 {
		return Key{}, false
	}
	switch mode {
	case Major:
		return Key{Tonic: majorTonics[fifths+7], Mode: Major}, true
	case Minor:
		return Key{Tonic: minorTonics[fifths+7], Mode: Minor}, true
	}
	return Key{}, false
}

// Fifths is the inverse of KeyFromFifths.
func (k Key) Fifths() (fifths int, ok bool) {
	tonics := majorTonics
	switch k.Mode {
	case Major:
	case Minor:
		tonics = minorTonics
	default:
		return 0, false
	}
	for i, name := range tonics {
		if name == k.Tonic {
			return i - 7, true
		}
	}
	return 0, false
}

// KeyFromSMF converts a key signature read with smf.Message.GetMetaKey.
func KeyFromSMF(k smf.Key) (Key, bool) {
	fifths := int(k.Num)
	if k.IsFlat {
		fifths = -fifths
	}
	mode := Major
	if !k.IsMajor {
		mode = Minor
	}
	return KeyFromFifths(fifths, mode)
}

// SMF is the inverse of KeyFromSMF. Key holds the tonic pitch class.
func (k Key) SMF() (smf.Key, bool) {
	fifths, ok := k.Fifths()
	if !ok {
		return smf.Key{}, false
	}
	pc, err := pitch.ParseClass(k.Tonic)
	if err != nil {
		return smf.Key{}, false
	}
	return smf.Key{
		Key:     uint8(pc),
		Num:     uint8(max(fifths, -fifths)),
		IsMajor: k.Mode == Major,
		IsFlat:  fifths < 0,
	}, true
}

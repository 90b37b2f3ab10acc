package model

import (
	"encoding/gob"

	"github.com/jsphweid/chorale/pitch"
)

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

type Key struct {
	Tonic string // pitch class name, e.g. "G", "B-"
	Mode  Mode
}

func (k Key) String() string {
	return k.Tonic + " " + string(k.Mode)
}

// Event is either a Note or a Rest.
type Event interface {
	Duration() float64
	event()
}

type Note struct {
	Pitch         pitch.Pitch
	QuarterLength float64
}

type Rest struct {
	QuarterLength float64
}

func (n Note) Duration() float64 { return n.QuarterLength }
func (r Rest) Duration() float64 { return r.QuarterLength }

func (Note) event() {}
func (Rest) event() {}

type Part struct {
	Name   string
	Key    *Key
	Events []Event
}

func (p Part) QuarterLength() float64 {
	var total float64
	for _, e := range p.Events {
		total += e.Duration()
	}
	return total
}

type Score struct {
	Title string
	// from a conductor track, checked after the part annotations
	Key   *Key
	Parts []Part
}

func init() {
	gob.Register(Note{})
	gob.Register(Rest{})
}

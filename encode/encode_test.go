package encode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/pitch"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(name string, ql float64) model.Event {
	p, err := pitch.Parse(name)
	if err != nil {
		panic(err)
	}
	return model.Note{Pitch: p, QuarterLength: ql}
}

func TestEncodeVoiceNumeric(t *testing.T) {
	tokens, err := EncodeVoice([]model.Event{note("C4", 1), model.Rest{QuarterLength: 0.5}, note("B-3", 0.25)}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"60", "_", "_", "_", "r", "_", "58"}, tokens)
}

func TestEncodeVoiceSymbolic(t *testing.T) {
	opts := Options{TimeStep: 0.25, Mode: model.Symbolic}
	tokens, err := EncodeVoice([]model.Event{note("F#3", 0.5), note("B-2", 0.75)}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"F#3", "_", "B-2", "_", "_"}, tokens)
}

func TestEncodeVoiceRejectsOffGrid(t *testing.T) {
	_, err := EncodeVoice([]model.Event{note("C4", 0.33)}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrOffGrid))

	_, err = EncodeVoice([]model.Event{note("C4", 0.125)}, DefaultOptions())
	assert.True(t, errors.Is(err, ErrOffGrid))
}

func TestNoVoiceStartsWithHold(t *testing.T) {
	s := &model.Score{Parts: []model.Part{
		{Events: []model.Event{note("C5", 2)}},
		{Events: []model.Event{model.Rest{QuarterLength: 1}, note("G4", 1)}},
		{Events: []model.Event{note("E4", 0.5)}},
	}}
	voices, err := EncodeScore(s, DefaultOptions())
	require.NoError(t, err)
	for _, v := range voices {
		assert.NotEqual(t, "_", v[0])
	}
}

func TestEncodeScorePadsShortVoices(t *testing.T) {
	s := &model.Score{Parts: []model.Part{
		{Events: []model.Event{note("C5", 1)}},
		{Events: []model.Event{note("G4", 0.5)}},
	}}
	voices, err := EncodeScore(s, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"72", "_", "_", "_"}, voices[0])
	assert.Equal(t, []string{"67", "_", "r", "_"}, voices[1])
}

func TestFormatLayouts(t *testing.T) {
	voices := [][]string{{"60", "_"}, {"55", "57"}}

	text, err := Format(voices, model.LayoutVoices)
	require.NoError(t, err)
	assert.Equal(t, "60 _\n55 57", text)

	text, err = Format(voices, model.LayoutSteps)
	require.NoError(t, err)
	assert.Equal(t, "60 55\n_ 57", text)

	_, err = Format([][]string{{"60"}, {"55", "_"}}, model.LayoutSteps)
	assert.Error(t, err)
}

func TestWriteSong(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSong(dir, 12, [][]string{{"60", "_"}, {"r", "_"}}, model.LayoutVoices)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "12.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "60 _\nr _", string(data))
}

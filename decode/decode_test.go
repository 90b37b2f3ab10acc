package decode

import (
	"testing"

	"github.com/jsphweid/chorale/encode"
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

func TestDecodeStepsScenario(t *testing.T) {
	s, report, err := Decode("C4 G3 E3 C3\n_ _ _ _\nD4 A3 F3 D3", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Dropped)
	require.Len(t, s.Parts, 4)

	assert.Equal(t, "Soprano", s.Parts[0].Name)
	assert.Equal(t, []model.Event{note("C4", 0.5), note("D4", 0.25)}, s.Parts[0].Events)
	assert.Equal(t, []model.Event{note("G3", 0.5), note("A3", 0.25)}, s.Parts[1].Events)
	assert.Equal(t, []model.Event{note("C3", 0.5), note("D3", 0.25)}, s.Parts[3].Events)
}

func TestDecodeVoiceCountsTrailingHolds(t *testing.T) {
	events, err := DecodeVoice([]string{"60", "_", "r", "_", "_"}, 0.25)
	require.NoError(t, err)
	assert.Equal(t, []model.Event{note("C4", 0.5), model.Rest{QuarterLength: 0.75}}, events)
}

func TestDecodeVoiceRejectsLeadingHold(t *testing.T) {
	_, err := DecodeVoice([]string{"_", "60"}, 0.25)
	assert.True(t, errors.Is(err, ErrLeadingHold))
}

func TestDecodeVoiceRejectsUnknownSymbols(t *testing.T) {
	_, err := DecodeVoice([]string{"60", "X9"}, 0.25)
	assert.Error(t, err)
	_, err = DecodeVoice([]string{"200"}, 0.25)
	assert.Error(t, err)
}

func TestParseDropsRaggedTail(t *testing.T) {
	voices, report, err := Parse("C4 G3 E3 C3\n_ _ _ _\nD4 A3", model.LayoutSteps, DropRaggedTail)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, []string{"C4", "_"}, voices[0])

	_, _, err = Parse("C4 G3 E3 C3\n_ _ _ _\nD4 A3", model.LayoutSteps, Strict)
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestParseRaggedInteriorIsAnError(t *testing.T) {
	_, _, err := Parse("C4 G3 E3 C3\n_ _\nD4 A3 F3 D3", model.LayoutSteps, DropRaggedTail)
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestParseStopsAtEndAndDelimiter(t *testing.T) {
	voices, _, err := Parse("C4 G3 E3 C3\nEND\nD4 A3 F3 D3", model.LayoutSteps, Strict)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4"}, voices[0])

	voices, _, err = Parse("C4 G3 E3 C3\n/ / / /\nD4 A3 F3 D3", model.LayoutSteps, Strict)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4"}, voices[0])

	voices, _, err = Parse("60 _ / / 62\n55 _ / / 57", model.LayoutVoices, Strict)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"60", "_"}, {"55", "_"}}, voices)
}

func TestParseVoicesTruncatesToShortest(t *testing.T) {
	voices, report, err := Parse("60 _ _\n55 _", model.LayoutVoices, DropRaggedTail)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, [][]string{{"60", "_"}, {"55", "_"}}, voices)

	_, _, err = Parse("60 _ _\n55 _", model.LayoutVoices, Strict)
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestRoundTrip(t *testing.T) {
	original := &model.Score{Parts: []model.Part{
		{Name: "Soprano", Events: []model.Event{note("C5", 1), note("B4", 0.5), note("A4", 0.5), note("G4", 2)}},
		{Name: "Alto", Events: []model.Event{model.Rest{QuarterLength: 0.25}, note("E4", 0.75), note("F#4", 1), note("D4", 2)}},
		{Name: "Tenor", Events: []model.Event{note("G3", 1.5), note("A3", 0.5), note("B-3", 2)}},
		{Name: "Bass", Events: []model.Event{note("C3", 3), model.Rest{QuarterLength: 1}}},
	}}

	for _, mode := range []model.TokenMode{model.Numeric, model.Symbolic} {
		for _, layout := range []model.Layout{model.LayoutVoices, model.LayoutSteps} {
			t.Run(string(mode)+"/"+string(layout), func(t *testing.T) {
				voices, err := encode.EncodeScore(original, encode.Options{TimeStep: 0.25, Mode: mode})
				require.NoError(t, err)
				text, err := encode.Format(voices, layout)
				require.NoError(t, err)

				decoded, _, err := Decode(text, Options{Layout: layout, StepDuration: 0.25, Policy: Strict})
				require.NoError(t, err)
				for i := range original.Parts {
					assert.Equal(t, original.Parts[i].Events, decoded.Parts[i].Events)
				}
			})
		}
	}
}

func TestLowestOctaveRoundTrip(t *testing.T) {
	cases := []struct {
		midi      int
		symbol    string
		spellable bool
	}{
		{0, "", false},
		{11, "", false},
		{12, "C0", true},
		{13, "C#0", true},
	}
	for _, c := range cases {
		p, err := pitch.FromMIDI(c.midi)
		require.NoError(t, err)
		events := []model.Event{model.Note{Pitch: p, QuarterLength: 0.5}}

		tokens, err := encode.EncodeVoice(events, encode.Options{TimeStep: 0.25, Mode: model.Numeric})
		require.NoError(t, err)
		back, err := DecodeVoice(tokens, 0.25)
		require.NoError(t, err)
		assert.Equal(t, events, back, c.midi)

		tokens, err = encode.EncodeVoice(events, encode.Options{TimeStep: 0.25, Mode: model.Symbolic})
		if !c.spellable {
			assert.True(t, errors.Is(err, encode.ErrUnspellable), c.midi)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, []string{c.symbol, "_"}, tokens)
		back, err = DecodeVoice(tokens, 0.25)
		require.NoError(t, err)
		assert.Equal(t, events, back, c.midi)
	}
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestFifthsRoundTrip(t *testing.T) {
	for fifths := -7; fifths <= 7; fifths++ {
		for _, mode := range []Mode{Major, Minor} {
			k, ok := KeyFromFifths(fifths, mode)
			assert.True(t, ok)
			back, ok := k.Fifths()
			assert.True(t, ok)
			assert.Equal(t, fifths, back, k.String())
		}
	}
}

func TestKeyFromFifths(t *testing.T) {
	k, _ := KeyFromFifths(1, Major)
	assert.Equal(t, Key{Tonic: "G", Mode: Major}, k)
	k, _ = KeyFromFifths(-1, Minor)
	assert.Equal(t, Key{Tonic: "D", Mode: Minor}, k)

	_, ok := KeyFromFifths(0, "dorian")
	assert.False(t, ok)
	_, ok = KeyFromFifths(8, Major)
	assert.False(t, ok)
	_, ok = Key{Tonic: "C", Mode: "lydian"}.Fifths()
	assert.False(t, ok)
}

func TestKeySMF(t *testing.T) {
	cases := []struct {
		key  Key
		want smf.Key
	}{
		{Key{Tonic: "C", Mode: Major}, smf.Key{Key: 0, Num: 0, IsMajor: true}},
		{Key{Tonic: "G", Mode: Major}, smf.Key{Key: 7, Num: 1, IsMajor: true}},
		{Key{Tonic: "B-", Mode: Major}, smf.Key{Key: 10, Num: 2, IsMajor: true, IsFlat: true}},
		{Key{Tonic: "C-", Mode: Major}, smf.Key{Key: 11, Num: 7, IsMajor: true, IsFlat: true}},
		{Key{Tonic: "E", Mode: Minor}, smf.Key{Key: 4, Num: 1}},
		{Key{Tonic: "A-", Mode: Minor}, smf.Key{Key: 8, Num: 7, IsFlat: true}},
	}
	for _, c := range cases {
		got, ok := c.key.SMF()
		require.True(t, ok, c.key.String())
		assert.Equal(t, c.want, got, c.key.String())

		// the library derives the tonic degree itself when reading
		var read smf.Key
		msg := smf.MetaKey(got.Key, got.IsMajor, got.Num, got.IsFlat)
		require.True(t, msg.GetMetaKey(&read))
		assert.Equal(t, c.want, read, c.key.String())

		back, ok := KeyFromSMF(read)
		require.True(t, ok)
		assert.Equal(t, c.key, back)
	}

	_, ok := Key{Tonic: "D", Mode: "dorian"}.SMF()
	assert.False(t, ok)
	_, ok = KeyFromSMF(smf.Key{Num: 9, IsMajor: true})
	assert.False(t, ok)
}

func TestPartQuarterLength(t *testing.T) {
	p := Part{Events: []Event{Rest{QuarterLength: 1}, Rest{QuarterLength: 0.5}}}
	assert.Equal(t, 1.5, p.QuarterLength())
}

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chorale/file"
	"github.com/jsphweid/chorale/midi"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChorale(t *testing.T, path string) {
	c4, err := pitch.Parse("C4")
	require.NoError(t, err)
	s := &model.Score{Key: &model.Key{Tonic: "C", Mode: model.Major}}
	for i := 0; i < 4; i++ {
		s.Parts = append(s.Parts, model.Part{Events: []model.Event{
			model.Note{Pitch: c4, QuarterLength: 1},
			model.Rest{QuarterLength: 0.5},
			model.Note{Pitch: c4, QuarterLength: 0.5},
		}})
	}
	var buf bytes.Buffer
	require.NoError(t, midi.WriteScore(s, &buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestImportSaveLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "bwv1.mid")
	bad := filepath.Join(dir, "broken.mid")
	writeChorale(t, good)
	require.NoError(t, os.WriteFile(bad, []byte("not midi"), 0o644))

	ds := Import(notation.Default{}, []string{bad, good, filepath.Join(dir, "missing.mid")})
	require.Equal(t, 1, ds.Len())
	song := ds.Songs[0]
	assert.Equal(t, 1, song.Index)
	assert.Equal(t, "bwv1", song.Score.Title)
	assert.Len(t, song.Score.Parts, 4)
	assert.Equal(t, file.SongSources{1: good}, ds.Sources())

	path := filepath.Join(dir, "cache", "choral_data.bin")
	require.NoError(t, ds.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}

package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSongs(t *testing.T, songs map[string]string) string {
	dir := t.TempDir()
	for name, text := range songs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestAssembleVoicesLayout(t *testing.T) {
	dir := writeSongs(t, map[string]string{
		"10.txt":   "72 _\n67 _\n64 _\n48 _",
		"2.txt":    "60\n55\n52\n36",
		"notes.md": "ignored",
	})
	c, err := Assemble(dir, 3, model.LayoutVoices)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, c.Songs)
	assert.Len(c.Streams, 4)
	// song 2 sorts before song 10
	assert.Equal([]string{"60", "/", "/", "/", "72", "_", "/", "/", "/"}, c.Streams[0])
	assert.Equal([]string{"36", "/", "/", "/", "48", "_", "/", "/", "/"}, c.Streams[3])
	for _, s := range c.Streams {
		assert.Len(s, c.Len())
	}
}

func TestAssembleStepsLayout(t *testing.T) {
	dir := writeSongs(t, map[string]string{
		"0.txt": "C4 G3 E3 C3\n_ _ _ _",
	})
	c, err := Assemble(dir, 2, model.LayoutSteps)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "_", "/", "/"}, c.Streams[0])
	assert.Equal(t, []string{"C3", "_", "/", "/"}, c.Streams[3])
}

func TestAssembleRejectsBadSongs(t *testing.T) {
	cases := map[string]map[string]string{
		"ragged":      {"0.txt": "60 _\n55"},
		"delimiter":   {"0.txt": "60 /\n55 _"},
		"voice count": {"0.txt": "60\n55", "1.txt": "60\n55\n52"},
	}
	for name, songs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Assemble(writeSongs(t, songs), 2, model.LayoutVoices)
			assert.Error(t, err)
		})
	}
}

func TestAssembleMissingDirIsFatal(t *testing.T) {
	_, err := Assemble(filepath.Join(t.TempDir(), "missing"), 2, model.LayoutVoices)
	assert.Error(t, err)
}

func TestParseStepsRagged(t *testing.T) {
	_, err := Parse("60 55\n_", model.LayoutSteps)
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := &Corpus{Streams: [][]string{{"60", "_", "/"}, {"r", "55", "/"}}}
	for _, layout := range []model.Layout{model.LayoutVoices, model.LayoutSteps} {
		path := filepath.Join(t.TempDir(), "corpus.txt")
		require.NoError(t, c.Write(path, layout))

		got, err := Read(path, layout)
		require.NoError(t, err)
		assert.Equal(t, c.Streams, got.Streams)
	}
}

func TestWriteStepsFormat(t *testing.T) {
	c := &Corpus{Streams: [][]string{{"C4", "/"}, {"G3", "/"}}}
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, c.Write(path, model.LayoutSteps))
	data, _ := os.ReadFile(path)
	assert.Equal(t, "C4 G3\n/ /\n", string(data))
}

func TestWriteRefusesRaggedCorpus(t *testing.T) {
	c := &Corpus{Streams: [][]string{{"60"}, {"55", "_"}}}
	err := c.Write(filepath.Join(t.TempDir(), "c.txt"), model.LayoutVoices)
	assert.True(t, errors.Is(err, ErrRagged))
	assert.True(t, strings.Contains(err.Error(), "stream 1"))
}

func TestCountSongs(t *testing.T) {
	stream := strings.Fields("60 _ / / / 62 / / / / r / /")
	assert.Equal(t, 2, CountSongs(stream, 3))
	assert.Equal(t, 0, CountSongs(nil, 3))
}

func TestTokens(t *testing.T) {
	c := &Corpus{Streams: [][]string{{"60", "_"}, {"r", "/"}}}
	assert.Equal(t, []string{"60", "_", "r", "/"}, c.Tokens())
}

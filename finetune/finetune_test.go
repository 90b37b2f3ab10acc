package finetune

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.txt"), []byte("C4 G3 E3 C3\n_ _ _ _"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.txt"), []byte("A4 E4 C4 A2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	var buf bytes.Buffer
	n, err := WriteJSONL(dir, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"prompt":"","completion":"A4 E4 C4 A2\nEND"}`, lines[0])

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, NewRecord("C4 G3 E3 C3\n_ _ _ _"), rec)
	assert.Equal(t, "C4 G3 E3 C3\n_ _ _ _\nEND", rec.Completion)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.txt"), []byte("r r r r"), 0o644))
	out := filepath.Join(t.TempDir(), "empty_prompt_data.jsonl")

	n, err := WriteFile(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\"prompt\":\"\",\"completion\":\"r r r r\\nEND\"}\n", string(data))
}

func TestMissingDir(t *testing.T) {
	_, err := WriteJSONL(filepath.Join(t.TempDir(), "missing"), &bytes.Buffer{})
	assert.Error(t, err)
}

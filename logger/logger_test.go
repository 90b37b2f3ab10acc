package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, parseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, parseLevel("error"))
	assert.Equal(t, log.InfoLevel, parseLevel("whatever"))
}

func TestWarnWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "")
	SetOutput(&buf)

	Debug("hidden")
	Warn("key estimated", "song", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "key estimated")
	assert.Contains(t, out, "song=3")
}

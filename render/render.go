// Package render writes decoded pieces to disk as MIDI, MusicXML or mp3.
package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jsphweid/chorale/file"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/notation"
	"github.com/pkg/errors"
)

type Renderer struct {
	Lib notation.Library
	Dir string

	// external tools for mp3 output, looked up on PATH when bare names
	Timidity string
	FFmpeg   string
}

func New(lib notation.Library, dir string) *Renderer {
	return &Renderer{Lib: lib, Dir: dir, Timidity: "timidity", FFmpeg: "ffmpeg"}
}

// Write renders s and stores it as <Dir>/<name><ext>, numbering the
// name if that file already exists. It returns the path written.
func (r *Renderer) Write(s *model.Score, name string, f notation.Format) (string, error) {
	data, err := r.Lib.Render(s, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "Could not create output dir")
	}
	path, err := file.Uniquify(filepath.Join(r.Dir, strings.TrimSuffix(name, filepath.Ext(name))+f.Ext()))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "Could not write %v", path)
	}
	logger.Debug("wrote artifact", "path", path, "format", f)
	return path, nil
}

// MP3 synthesizes a MIDI file through timidity and encodes the wav
// stream with ffmpeg, next to the MIDI file.
func (r *Renderer) MP3(ctx context.Context, midiPath string) (string, error) {
	out, err := file.Uniquify(strings.TrimSuffix(midiPath, filepath.Ext(midiPath)) + ".mp3")
	if err != nil {
		return "", err
	}

	synth := exec.CommandContext(ctx, r.Timidity, midiPath, "-Ow", "-o", "-")
	encode := exec.CommandContext(ctx, r.FFmpeg, "-i", "-", "-acodec", "libmp3lame", "-ab", "64k", "-y", out)

	var synthErr, encodeErr bytes.Buffer
	synth.Stderr = &synthErr
	encode.Stderr = &encodeErr
	pipe, err := synth.StdoutPipe()
	if err != nil {
		return "", err
	}
	encode.Stdin = pipe

	if err := encode.Start(); err != nil {
		pipe.Close()
		return "", errors.Wrapf(err, "Could not start %v", r.FFmpeg)
	}
	if err := synth.Run(); err != nil {
		_ = encode.Wait()
		return "", errors.Wrapf(err, "%v failed: %v", r.Timidity, synthErr.String())
	}
	if err := encode.Wait(); err != nil {
		return "", errors.Wrapf(err, "%v failed: %v", r.FFmpeg, encodeErr.String())
	}
	return out, nil
}

// Package finetune exports encoded songs as prompt/completion records
// for fine-tuning a hosted text model.
package finetune

import (
	"io"
	"os"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/corpus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Record struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// NewRecord wraps one encoded song. The prompt stays empty so the model
// learns to write whole pieces, each terminated by an END line.
func NewRecord(song string) Record {
	return Record{Completion: song + "\n" + constants.End}
}

// WriteJSONL writes one record per encoded song in dir, in song order,
// and returns how many it wrote.
func WriteJSONL(dir string, w io.Writer) (int, error) {
	paths, err := corpus.SongFiles(dir)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return i, errors.Wrapf(err, "Could not read %v", path)
		}
		if err := enc.Encode(NewRecord(string(data))); err != nil {
			return i, errors.Wrap(err, "Could not write record")
		}
	}
	return len(paths), nil
}

func WriteFile(dir, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "Could not create export")
	}
	n, err := WriteJSONL(dir, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

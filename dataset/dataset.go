// Package dataset holds the imported chorales. It is loaded once and
// handed to the preprocessing pipeline explicitly.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/chorale/file"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/util"
	"github.com/pkg/errors"
)

type Song struct {
	// position in the import, also the encoded file name
	Index  int
	Source string
	Score  *model.Score
}

type Dataset struct {
	Songs []Song
}

// Import parses every path. Files the library cannot read are logged and
// skipped; song numbers stay tied to the import order either way.
func Import(lib notation.Library, paths []string) *Dataset {
	sources := file.CreateFileNumMap(paths)
	ds := &Dataset{}
	for _, num := range util.GetKeysSorted(sources) {
		path := sources[num]
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file", "path", path, "err", err)
			continue
		}
		s, err := lib.Parse(data)
		if err != nil {
			logger.Warn("Skipping unparseable file", "path", path, "err", err)
			continue
		}
		if s.Title == "" {
			s.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		ds.Songs = append(ds.Songs, Song{Index: num, Source: path, Score: s})
	}
	logger.Info("Imported chorales", "files", len(paths), "songs", len(ds.Songs))
	return ds
}

func (d *Dataset) Len() int {
	return len(d.Songs)
}

func (d *Dataset) Sources() file.SongSources {
	res := make(file.SongSources, len(d.Songs))
	for _, s := range d.Songs {
		res[s.Index] = s.Source
	}
	return res
}

func (d *Dataset) Save(path string) error {
	return util.CreateBinary(path, d)
}

func Load(path string) (*Dataset, error) {
	ds, err := util.ReadBinary[Dataset](path)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not load dataset %v", path)
	}
	return &ds, nil
}

package file

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SongSources maps a song number to the MIDI file it was imported from.
type SongSources map[int]string

func CreateFileNumMap(paths []string) SongSources {
	res := make(SongSources)
	for i, v := range paths {
		res[i] = v
	}
	return res
}

// Uniquify returns path if nothing exists there yet, otherwise the first
// free name1.ext, name2.ext, ...
func Uniquify(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for counter := 1; ; counter++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, "Could not stat %v", candidate)
		}
		candidate = base + strconv.Itoa(counter) + ext
	}
}

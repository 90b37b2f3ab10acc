// Package pipeline runs filter, key normalization and encoding over a
// whole dataset.
package pipeline

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/dataset"
	"github.com/jsphweid/chorale/encode"
	"github.com/jsphweid/chorale/filter"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/normalize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	OutDir     string
	Layout     model.Layout
	Encode     encode.Options
	Durations  []float64
	Voices     int
	Workers    int
	Normalizer normalize.Normalizer
}

func DefaultOptions(outDir string, estimator normalize.KeyEstimator) Options {
	return Options{
		OutDir:     outDir,
		Layout:     model.LayoutVoices,
		Encode:     encode.DefaultOptions(),
		Durations:  constants.AcceptableDurations,
		Voices:     constants.NumVoices,
		Normalizer: normalize.Normalizer{Estimator: estimator},
	}
}

type Failure struct {
	Index int
	Err   error
}

type Report struct {
	RunID    string
	Kept     int
	Filtered int
	// kept songs whose key had to be estimated
	Estimated int
	Failed    []Failure
}

type outcome int

const (
	kept outcome = iota
	filtered
	failed
)

// Preprocess encodes every song that passes the filters into
// <OutDir>/<index>.txt. Songs that fail to normalize or encode are
// skipped and reported; only cancellation or a failed write stops the run.
func Preprocess(ctx context.Context, ds *dataset.Dataset, opts Options) (Report, error) {
	report := Report{RunID: uuid.New().String()}
	log := logger.With("run", report.RunID)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return report, errors.Wrap(err, "Could not create output dir")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for _, song := range ds.Songs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, estimated, err := processSong(song, opts)
			if err != nil && res != failed {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case kept:
				report.Kept++
				if estimated {
					report.Estimated++
				}
			case filtered:
				report.Filtered++
			case failed:
				log.Warn("Skipping song", "index", song.Index, "source", song.Source, "err", err)
				report.Failed = append(report.Failed, Failure{Index: song.Index, Err: err})
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Index < report.Failed[j].Index
	})

	log.Info("Preprocessed", "kept", report.Kept, "filtered", report.Filtered,
		"estimated", report.Estimated, "failed", len(report.Failed))
	return report, err
}

// processSong returns a non-nil error with outcome kept only for write
// failures, which abort the run.
func processSong(song dataset.Song, opts Options) (outcome, bool, error) {
	s := song.Score
	if !filter.HasVoiceCount(s, opts.Voices) || !filter.HasAcceptableDurations(s, opts.Durations) {
		return filtered, false, nil
	}

	normalized, res, err := opts.Normalizer.Normalize(s)
	if err != nil {
		return failed, false, err
	}
	if res.Estimated {
		logger.Warn("No key annotation, using estimated key",
			"index", song.Index, "source", song.Source, "key", res.Key.String())
	}

	voices, err := encode.EncodeScore(normalized, opts.Encode)
	if err != nil {
		return failed, false, err
	}
	if _, err := encode.WriteSong(opts.OutDir, song.Index, voices, opts.Layout); err != nil {
		return kept, res.Estimated, err
	}
	return kept, res.Estimated, nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/corpus"
	"github.com/jsphweid/chorale/dataset"
	"github.com/jsphweid/chorale/util"
	"github.com/jsphweid/chorale/vocab"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes the dataset, encoded songs, corpus and vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		return report(cfg)
	},
}

type songsReport struct {
	numFiles int64
	numBytes int64
	steps    []int
}

type corpusReport struct {
	numSongs  int
	numSteps  int
	numVoices int
	vocabSize int
}

func analyzeSongs(cfg config.Config) (songsReport, error) {
	var report songsReport
	paths, err := corpus.SongFiles(cfg.EncodedDir)
	if err != nil {
		return report, err
	}
	for _, path := range paths {
		stats, err := os.Stat(path)
		if err != nil {
			return report, err
		}
		voices, err := corpus.ReadSong(path, cfg.Layout)
		if err != nil {
			return report, fmt.Errorf("Could not read %v: %w", path, err)
		}
		report.numFiles += 1
		report.numBytes += stats.Size()
		if len(voices) > 0 {
			report.steps = append(report.steps, len(voices[0]))
		}
	}
	return report, nil
}

func analyzeCorpus(cfg config.Config) (corpusReport, error) {
	var report corpusReport
	c, err := corpus.Read(cfg.CorpusPath, cfg.Layout)
	if err != nil {
		return report, err
	}
	report.numSteps = c.Len()
	report.numVoices = len(c.Streams)
	if c.Len() > 0 {
		report.numSongs = corpus.CountSongs(c.Streams[0], cfg.SequenceLength)
	}
	v, err := vocab.Load(cfg.EncoderPath, cfg.DecoderPath)
	if err == nil {
		report.vocabSize = v.Len()
	}
	return report, nil
}

func report(cfg config.Config) error {
	if ds, err := dataset.Load(cfg.DatasetPath); err == nil {
		fmt.Printf("dataset.songs: %v\n", ds.Len())
	} else {
		fmt.Printf("dataset: %v\n", err)
	}

	songs, err := analyzeSongs(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("songsReport.numFiles: %v\n", songs.numFiles)
	fmt.Printf("songsReport.numBytes: %v\n", songs.numBytes)
	totalSteps := util.Sum(songs.steps)
	fmt.Printf("songsReport.totalSteps: %v\n", totalSteps)
	if songs.numFiles > 0 {
		fmt.Printf("songsReport.avgSteps: %v\n", float64(totalSteps)/float64(songs.numFiles))
	}

	c, err := analyzeCorpus(cfg)
	if err != nil {
		fmt.Printf("corpus: %v\n", err)
		return nil
	}
	fmt.Printf("corpusReport.numSongs: %v\n", c.numSongs)
	fmt.Printf("corpusReport.numVoices: %v\n", c.numVoices)
	fmt.Printf("corpusReport.numSteps: %v\n", c.numSteps)
	fmt.Printf("corpusReport.vocabSize: %v\n", c.vocabSize)
	fmt.Printf("encoded steps + delimiters should equal corpus steps: %v\n",
		int(totalSteps)+int(songs.numFiles)*cfg.SequenceLength == c.numSteps)
	return nil
}

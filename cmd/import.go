package cmd

import (
	"strconv"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/dataset"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <midi dir> [max files]",
	Short: "Parses a directory of MIDI chorales into the dataset cache",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = n
		}
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		_, err = Import(cfg, args[0], maxNum)
		return err
	},
}

func Import(cfg config.Config, dir string, maxNum int) (*dataset.Dataset, error) {
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return nil, err
	}
	ds := dataset.Import(notation.Default{}, paths)
	if err := ds.Save(cfg.DatasetPath); err != nil {
		return nil, err
	}
	logger.Info("Saved dataset", "path", cfg.DatasetPath, "songs", ds.Len())
	return ds, nil
}

package cmd

import (
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/dataset"
	"github.com/jsphweid/chorale/encode"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	preprocessCmd.Flags().Int("workers", 0, "Songs encoded in parallel (0 = one per CPU)")
	cobra.CheckErr(viper.BindPFlag("workers", preprocessCmd.Flags().Lookup("workers")))
	rootCmd.AddCommand(preprocessCmd)
}

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Filters, transposes and encodes every imported chorale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		ds, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			return err
		}
		report, err := pipeline.Preprocess(cmd.Context(), ds, PipelineOptions(cfg))
		if err != nil {
			return err
		}
		cmd.Printf("run %v: kept %v, filtered %v, estimated keys %v, failed %v\n",
			report.RunID, report.Kept, report.Filtered, report.Estimated, len(report.Failed))
		return nil
	},
}

func PipelineOptions(cfg config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions(cfg.EncodedDir, notation.Default{})
	opts.Layout = cfg.Layout
	opts.Encode = encode.Options{TimeStep: cfg.TimeStep, Mode: cfg.TokenMode}
	opts.Workers = cfg.Workers
	return opts
}

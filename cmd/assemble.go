package cmd

import (
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/corpus"
	"github.com/jsphweid/chorale/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	assembleCmd.Flags().Int("sequence-length", 64, "Delimiter tokens appended after each song")
	cobra.CheckErr(viper.BindPFlag("sequence_length", assembleCmd.Flags().Lookup("sequence-length")))
	rootCmd.AddCommand(assembleCmd)
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Concatenates encoded songs into one delimited corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		_, err = Assemble(cfg)
		return err
	},
}

func Assemble(cfg config.Config) (*corpus.Corpus, error) {
	c, err := corpus.Assemble(cfg.EncodedDir, cfg.SequenceLength, cfg.Layout)
	if err != nil {
		return nil, err
	}
	if err := c.Write(cfg.CorpusPath, cfg.Layout); err != nil {
		return nil, err
	}
	logger.Info("Wrote corpus", "path", cfg.CorpusPath, "songs", c.Songs, "steps", c.Len())
	return c, nil
}

package cmd

import (
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/corpus"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/sequence"
	"github.com/jsphweid/chorale/vocab"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(vocabCmd)
}

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Builds the token vocabulary and checks the corpus encodes with it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		v, gen, err := BuildVocab(cfg)
		if err != nil {
			return err
		}
		cmd.Printf("vocabulary: %v tokens, training samples: %v\n", v.Len(), gen.Len())
		return nil
	},
}

// BuildVocab writes the encoder/decoder pair for the corpus and returns
// the sample generator over the integer-coded streams.
func BuildVocab(cfg config.Config) (*vocab.Vocabulary, *sequence.Generator, error) {
	c, err := corpus.Read(cfg.CorpusPath, cfg.Layout)
	if err != nil {
		return nil, nil, err
	}
	v := vocab.Build(c)
	if err := v.Save(cfg.EncoderPath, cfg.DecoderPath); err != nil {
		return nil, nil, err
	}
	streams, err := v.EncodeStreams(c)
	if err != nil {
		return nil, nil, err
	}
	gen, err := sequence.New(streams, cfg.SequenceLength, v.Len())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Wrote vocabulary", "encoder", cfg.EncoderPath, "decoder", cfg.DecoderPath, "size", v.Len())
	return v, gen, nil
}

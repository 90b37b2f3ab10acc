package cmd

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/chorale/complete"
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/render"
	"github.com/jsphweid/chorale/sample"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	generatePrompt string
	generateBars   int
	generateFormat string
)

func init() {
	flags := generateCmd.Flags()
	flags.StringVar(&generatePrompt, "prompt", "", "Encoded file to continue (default: a random seed from the encoded songs)")
	flags.IntVar(&generateBars, "bars", 1, "Bars of seed taken from a random song")
	flags.StringVar(&generateFormat, "format", "midi", "midi or musicxml")
	flags.String("model", "", "Fine-tuned completion model")
	flags.Int("rounds", 60, "Maximum completion requests")
	cobra.CheckErr(viper.BindPFlag("completion.model", flags.Lookup("model")))
	cobra.CheckErr(viper.BindPFlag("completion.rounds", flags.Lookup("rounds")))
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Continues a seed with a completion model and decodes the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		format, err := notation.ParseFormat(generateFormat)
		if err != nil {
			return err
		}
		seed, err := loadSeed(cfg)
		if err != nil {
			return err
		}

		c := cfg.Completion
		if c.APIKey == "" {
			return errors.New("no completion API key (set CHORALE_COMPLETION_API_KEY or OPENAI_API_KEY)")
		}
		g := &complete.Generator{
			Completer: complete.NewOpenAI(complete.OpenAIConfig{
				APIKey:      c.APIKey,
				BaseURL:     c.BaseURL,
				Model:       c.Model,
				Temperature: c.Temperature,
				MaxTokens:   c.MaxTokens,
				Timeout:     c.Timeout,
				MaxRetries:  c.MaxRetries,
			}),
			Rounds:    c.Rounds,
			SeenLines: c.SeenLines,
			Timeout:   c.Timeout,
		}
		text, genErr := g.Generate(cmd.Context(), seed)
		if genErr != nil {
			// keep whatever came back before the failure
			logger.Error("Generation stopped early", "err", genErr)
		}

		name := "generated-" + uuid.New().String()
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return err
		}
		textPath := filepath.Join(cfg.OutDir, name+".txt")
		if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
			return err
		}
		path, err := SavePiece(render.New(notation.Default{}, cfg.OutDir), text, DecodeOptions(cfg), name, format)
		if err != nil {
			return errors.Wrapf(err, "generated text kept in %v", textPath)
		}
		cmd.Println(path)
		return genErr
	},
}

func loadSeed(cfg config.Config) (string, error) {
	if generatePrompt != "" {
		data, err := os.ReadFile(generatePrompt)
		return string(data), err
	}
	e, err := sample.Seed(cfg.EncodedDir, cfg.Layout, generateBars, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		return "", err
	}
	logger.Info("Seeding from", "song", e.SongFile, "bars", e.Bars)
	return e.Text(cfg.Layout)
}

package cmd

import (
	"io"
	"os"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/decode"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/render"
	"github.com/spf13/cobra"
)

var (
	decodeFormat string
	decodeName   string
	decodeMP3    bool
	decodeStrict bool
)

func init() {
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "midi", "midi or musicxml")
	decodeCmd.Flags().StringVar(&decodeName, "name", "mel", "Base name of the written file")
	decodeCmd.Flags().BoolVar(&decodeMP3, "mp3", false, "Also synthesize an mp3 (needs timidity and ffmpeg)")
	decodeCmd.Flags().BoolVar(&decodeStrict, "strict", false, "Reject ragged input instead of trimming it")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <encoded file | ->",
	Short: "Turns encoded tokens back into a MIDI or MusicXML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		format, err := notation.ParseFormat(decodeFormat)
		if err != nil {
			return err
		}
		var data []byte
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		opts := DecodeOptions(cfg)
		if decodeStrict {
			opts.Policy = decode.Strict
		}
		r := render.New(notation.Default{}, cfg.OutDir)
		path, err := SavePiece(r, string(data), opts, decodeName, format)
		if err != nil {
			return err
		}
		cmd.Println(path)
		if decodeMP3 && format == notation.MIDI {
			mp3, err := r.MP3(cmd.Context(), path)
			if err != nil {
				return err
			}
			cmd.Println(mp3)
		}
		return nil
	},
}

// SavePiece decodes text and writes it through r.
func SavePiece(r *render.Renderer, text string, opts decode.Options, name string, format notation.Format) (string, error) {
	s, report, err := decode.Decode(text, opts)
	if err != nil {
		return "", err
	}
	if report.Dropped > 0 {
		logger.Warn("Dropped ragged steps", "steps", report.Dropped)
	}
	return r.Write(s, name, format)
}

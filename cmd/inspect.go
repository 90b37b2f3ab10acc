package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/decode"
	"github.com/jsphweid/chorale/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <encoded song>",
	Short: "Prints the events an encoded song decodes to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		return inspect(cfg, args[0])
	},
}

func inspect(cfg config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, report, err := decode.Decode(string(data), DecodeOptions(cfg))
	if err != nil {
		return err
	}
	if report.Dropped > 0 {
		fmt.Printf("dropped steps: %v\n", report.Dropped)
	}
	for _, part := range s.Parts {
		fmt.Printf("part: %v (%v quarters)\n", part.Name, part.QuarterLength())
		for _, e := range part.Events {
			switch e := e.(type) {
			case model.Note:
				fmt.Printf("  %v %v\n", e.Pitch, e.QuarterLength)
			case model.Rest:
				fmt.Printf("  rest %v\n", e.QuarterLength)
			}
		}
	}
	return nil
}

func DecodeOptions(cfg config.Config) decode.Options {
	return decode.Options{Layout: cfg.Layout, StepDuration: cfg.TimeStep, Policy: decode.DropRaggedTail}
}

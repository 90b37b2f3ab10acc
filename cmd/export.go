package cmd

import (
	"path/filepath"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/finetune"
	"github.com/jsphweid/chorale/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes encoded songs as a JSONL fine-tuning file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		_, err = Export(cfg)
		return err
	},
}

func ExportPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, constants.CompletionFile)
}

func Export(cfg config.Config) (string, error) {
	path := ExportPath(cfg)
	n, err := finetune.WriteFile(cfg.EncodedDir, path)
	if err != nil {
		return "", err
	}
	logger.Info("Exported fine-tune records", "path", path, "records", n)
	return path, nil
}

package cmd

import (
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "chorale",
	Short: "Four-voice chorale tokenization pipeline",
	Long: `Turns four-voice chorales into time-step token sequences for
sequence models, and decodes generated tokens back into scores.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return err
		}
		logger.Init(viper.GetString("log.level"), viper.GetString("log.file"))
		return nil
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")
	flags.String("data-dir", ".", "Directory artifacts are read from and written to")
	flags.String("layout", "voices", "Encoded text layout: voices or steps")
	flags.String("token-mode", "numeric", "Pitch tokens: numeric (MIDI numbers) or symbolic (names)")
	flags.String("log-level", "info", "debug, info, warn or error")

	cobra.CheckErr(viper.BindPFlag("data_dir", flags.Lookup("data-dir")))
	cobra.CheckErr(viper.BindPFlag("layout", flags.Lookup("layout")))
	cobra.CheckErr(viper.BindPFlag("token_mode", flags.Lookup("token-mode")))
	cobra.CheckErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))
}

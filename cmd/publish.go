package cmd

import (
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/publish"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	publishCmd.Flags().String("bucket", "", "Destination S3 bucket")
	publishCmd.Flags().String("prefix", "chorale", "Key prefix inside the bucket")
	cobra.CheckErr(viper.BindPFlag("s3.bucket", publishCmd.Flags().Lookup("bucket")))
	cobra.CheckErr(viper.BindPFlag("s3.prefix", publishCmd.Flags().Lookup("prefix")))
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Uploads the corpus, vocabulary and fine-tune export to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		p, err := publish.NewFromEnv(cmd.Context(), cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			return err
		}
		keys, err := p.UploadAll(cmd.Context(),
			[]string{cfg.CorpusPath, cfg.EncoderPath, cfg.DecoderPath},
			[]string{ExportPath(cfg)})
		for _, k := range keys {
			cmd.Printf("s3://%v/%v\n", cfg.S3.Bucket, k)
		}
		return err
	},
}

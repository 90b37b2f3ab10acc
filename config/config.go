package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	DataDir     string
	EncodedDir  string
	CorpusPath  string
	EncoderPath string
	DecoderPath string
	DatasetPath string
	OutDir      string

	Layout         model.Layout
	TokenMode      model.TokenMode
	TimeStep       float64
	SequenceLength int
	Workers        int

	LogLevel string
	LogFile  string

	Completion Completion
	S3         S3
	ServerAddr string
}

type Completion struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Rounds      int
	SeenLines   int
	Timeout     time.Duration
	MaxRetries  int
}

type S3 struct {
	Bucket string
	Prefix string
}

// Init wires defaults, the optional config file and CHORALE_* env vars.
func Init(configPath string) error {
	setDefaults()
	viper.SetEnvPrefix("chorale")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// completion API keys are conventionally unprefixed
	_ = viper.BindEnv("completion.api_key", "CHORALE_COMPLETION_API_KEY", "OPENAI_API_KEY", "API_KEY")

	if configPath == "" {
		return nil
	}
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "Could not read config %v", configPath)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("data_dir", ".")
	viper.SetDefault("encoded_dir", "data_chorales")
	viper.SetDefault("corpus", constants.CorpusFile)
	viper.SetDefault("encoder", constants.EncoderFile)
	viper.SetDefault("decoder", constants.DecoderFile)
	viper.SetDefault("dataset", constants.DatasetFile)
	viper.SetDefault("out_dir", "midi_results")

	viper.SetDefault("layout", string(model.LayoutVoices))
	viper.SetDefault("token_mode", string(model.Numeric))
	viper.SetDefault("time_step", constants.DefaultTimeStep)
	viper.SetDefault("sequence_length", constants.DefaultSequenceLength)
	viper.SetDefault("workers", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	viper.SetDefault("completion.model", "gpt-3.5-turbo-instruct")
	viper.SetDefault("completion.temperature", 0.6)
	viper.SetDefault("completion.max_tokens", 256)
	viper.SetDefault("completion.rounds", 60)
	viper.SetDefault("completion.seen_lines", 64)
	viper.SetDefault("completion.timeout", 60*time.Second)
	viper.SetDefault("completion.max_retries", 3)

	viper.SetDefault("s3.prefix", "chorale")
	viper.SetDefault("server.addr", ":8080")
}

// Get snapshots the current viper state. Relative paths are resolved
// against data_dir.
func Get() (Config, error) {
	layout, err := model.ParseLayout(viper.GetString("layout"))
	if err != nil {
		return Config{}, err
	}
	mode, err := model.ParseTokenMode(viper.GetString("token_mode"))
	if err != nil {
		return Config{}, err
	}
	if viper.GetFloat64("time_step") <= 0 {
		return Config{}, errors.New("time_step must be positive")
	}
	if viper.GetInt("sequence_length") <= 0 {
		return Config{}, errors.New("sequence_length must be positive")
	}

	dataDir := viper.GetString("data_dir")
	path := func(key string) string {
		p := viper.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dataDir, p)
	}

	return Config{
		DataDir:     dataDir,
		EncodedDir:  path("encoded_dir"),
		CorpusPath:  path("corpus"),
		EncoderPath: path("encoder"),
		DecoderPath: path("decoder"),
		DatasetPath: path("dataset"),
		OutDir:      path("out_dir"),

		Layout:         layout,
		TokenMode:      mode,
		TimeStep:       viper.GetFloat64("time_step"),
		SequenceLength: viper.GetInt("sequence_length"),
		Workers:        viper.GetInt("workers"),

		LogLevel: viper.GetString("log.level"),
		LogFile:  viper.GetString("log.file"),

		Completion: Completion{
			APIKey:      viper.GetString("completion.api_key"),
			BaseURL:     viper.GetString("completion.base_url"),
			Model:       viper.GetString("completion.model"),
			Temperature: viper.GetFloat64("completion.temperature"),
			MaxTokens:   viper.GetInt("completion.max_tokens"),
			Rounds:      viper.GetInt("completion.rounds"),
			SeenLines:   viper.GetInt("completion.seen_lines"),
			Timeout:     viper.GetDuration("completion.timeout"),
			MaxRetries:  viper.GetInt("completion.max_retries"),
		},
		S3: S3{
			Bucket: viper.GetString("s3.bucket"),
			Prefix: viper.GetString("s3.prefix"),
		},
		ServerAddr: viper.GetString("server.addr"),
	}, nil
}

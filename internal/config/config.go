package config

import (
	"fmt"
	"strings"

	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths      PathsConfig      `mapstructure:"paths"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Sampler    SamplerConfig    `mapstructure:"sampler"`
	Server     ServerConfig     `mapstructure:"server"`
	LogLevel   string           `mapstructure:"log_level"`
}

type PathsConfig struct {
	CorpusPath string `mapstructure:"corpus_path"`
	VocabPath  string `mapstructure:"vocab_path"`
	OutputPath string `mapstructure:"output_path"`
}

type DictionaryConfig struct {
	MinCount             int    `mapstructure:"min_count"`
	ReplaceLowerFreqWord bool   `mapstructure:"replace_lower_freq_word"`
	ReplaceWord          string `mapstructure:"replace_word"`
	BOSWord              string `mapstructure:"bos_word"`
	EOSWord              string `mapstructure:"eos_word"`
	MaxSentenceLength    int    `mapstructure:"max_sentence_length"`
	Normalize            string `mapstructure:"normalize"`
	InMemory             bool   `mapstructure:"in_memory"`
}

type SamplerConfig struct {
	SampleT float64 `mapstructure:"sample_t"`
	Seed    uint64  `mapstructure:"seed"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	dict := dictionary.DefaultConfig()

	return Config{
		Paths: PathsConfig{
			CorpusPath: "",
			VocabPath:  "",
			OutputPath: "",
		},
		Dictionary: DictionaryConfig{
			MinCount:             dict.MinCount,
			ReplaceLowerFreqWord: dict.ReplaceLowerFreqWord,
			ReplaceWord:          dict.ReplaceWord,
			BOSWord:              dict.BOSWord,
			EOSWord:              dict.EOSWord,
			MaxSentenceLength:    dict.MaxSentenceLength,
			Normalize:            dict.Normalize,
			InMemory:             false,
		},
		Sampler: SamplerConfig{
			SampleT: 0,
			Seed:    7,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxTextBytes:    1 << 20,
			RequestTimeout:  60,
			ShutdownTimeout: 30,
		},
		LogLevel: "info",
	}
}

// DictionaryConfig converts the dictionary section into a dictionary.Config.
func (c Config) DictionaryConfig() dictionary.Config {
	return dictionary.Config{
		MinCount:             c.Dictionary.MinCount,
		ReplaceLowerFreqWord: c.Dictionary.ReplaceLowerFreqWord,
		ReplaceWord:          c.Dictionary.ReplaceWord,
		BOSWord:              c.Dictionary.BOSWord,
		EOSWord:              c.Dictionary.EOSWord,
		MaxSentenceLength:    c.Dictionary.MaxSentenceLength,
		Normalize:            c.Dictionary.Normalize,
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-corpus-path", defaults.Paths.CorpusPath, "Path to the training corpus")
	fs.String("paths-vocab-path", defaults.Paths.VocabPath, "Path to a vocabulary TSV file")
	fs.String("paths-output-path", defaults.Paths.OutputPath, "Output path (stdout when empty)")
	fs.Int("dictionary-min-count", defaults.Dictionary.MinCount, "Minimum word frequency")
	fs.Bool("dictionary-replace-lower-freq-word", defaults.Dictionary.ReplaceLowerFreqWord, "Replace low-frequency and unknown words with the replacement word")
	fs.String("dictionary-replace-word", defaults.Dictionary.ReplaceWord, "Out-of-vocabulary replacement word")
	fs.String("dictionary-bos-word", defaults.Dictionary.BOSWord, "Word inserted at the start of every line (empty to disable)")
	fs.String("dictionary-eos-word", defaults.Dictionary.EOSWord, "Word inserted at the end of every line (empty to disable)")
	fs.Int("dictionary-max-sentence-length", defaults.Dictionary.MaxSentenceLength, "Maximum number of ids per streamed sentence")
	fs.String("dictionary-normalize", defaults.Dictionary.Normalize, "Unicode normalization form for words: nfc|nfd|nfkc|nfkd")
	fs.Bool("dictionary-in-memory", defaults.Dictionary.InMemory, "Read corpus files line by line instead of streaming characters")
	fs.Float64("sampler-sample-t", defaults.Sampler.SampleT, "Sub-sampling threshold (0 disables discarding)")
	fs.Uint64("sampler-seed", defaults.Sampler.Seed, "Sub-sampling random seed")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent transform requests")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("WORDVOCAB")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("paths.corpus_path", "WORDVOCAB_CORPUS", "WORDVOCAB_PATHS_CORPUS_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind corpus env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("wordvocab")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	form, err := NormalizeForm(cfg.Dictionary.Normalize)
	if err != nil {
		return Config{}, err
	}
	cfg.Dictionary.Normalize = form

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.corpus_path", c.Paths.CorpusPath)
	v.SetDefault("paths.vocab_path", c.Paths.VocabPath)
	v.SetDefault("paths.output_path", c.Paths.OutputPath)
	v.SetDefault("dictionary.min_count", c.Dictionary.MinCount)
	v.SetDefault("dictionary.replace_lower_freq_word", c.Dictionary.ReplaceLowerFreqWord)
	v.SetDefault("dictionary.replace_word", c.Dictionary.ReplaceWord)
	v.SetDefault("dictionary.bos_word", c.Dictionary.BOSWord)
	v.SetDefault("dictionary.eos_word", c.Dictionary.EOSWord)
	v.SetDefault("dictionary.max_sentence_length", c.Dictionary.MaxSentenceLength)
	v.SetDefault("dictionary.normalize", c.Dictionary.Normalize)
	v.SetDefault("dictionary.in_memory", c.Dictionary.InMemory)
	v.SetDefault("sampler.sample_t", c.Sampler.SampleT)
	v.SetDefault("sampler.seed", c.Sampler.Seed)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("log_level", c.LogLevel)
}

// flagKeys maps config keys to the flag names registered by RegisterFlags.
var flagKeys = []struct{ key, flag string }{
	{"paths.corpus_path", "paths-corpus-path"},
	{"paths.vocab_path", "paths-vocab-path"},
	{"paths.output_path", "paths-output-path"},
	{"dictionary.min_count", "dictionary-min-count"},
	{"dictionary.replace_lower_freq_word", "dictionary-replace-lower-freq-word"},
	{"dictionary.replace_word", "dictionary-replace-word"},
	{"dictionary.bos_word", "dictionary-bos-word"},
	{"dictionary.eos_word", "dictionary-eos-word"},
	{"dictionary.max_sentence_length", "dictionary-max-sentence-length"},
	{"dictionary.normalize", "dictionary-normalize"},
	{"dictionary.in_memory", "dictionary-in-memory"},
	{"sampler.sample_t", "sampler-sample-t"},
	{"sampler.seed", "sampler-seed"},
	{"server.listen_addr", "server-listen-addr"},
	{"server.workers", "server-workers"},
	{"server.max_text_bytes", "server-max-text-bytes"},
	{"server.request_timeout", "server-request-timeout"},
	{"server.shutdown_timeout", "server-shutdown-timeout"},
	{"log_level", "log-level"},
}

// bindFlags binds each nested key to its flag. Flags missing from fs are
// skipped so commands can register a subset.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", fk.flag, err)
		}
	}
	return nil
}

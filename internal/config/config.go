package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/guarzo/freestuff/client"
)

// Prefix is prepended to every variable name, e.g. FREESTUFF_API_KEY.
const Prefix = "freestuff"

// Config holds CLI configuration read from the environment and an optional .env file.
type Config struct {
	// APIKey is sent with every request. Required.
	APIKey string `required:"true" split_words:"true"`

	APIDomain string        `split_words:"true" default:"https://api.freestuffbot.xyz"`
	Timeout   time.Duration `default:"30s"`

	// RPS paces requests client-side. Zero disables pacing.
	RPS   float64 `default:"0"`
	Burst int     `default:"1"`

	LogLevel string `split_words:"true" default:"info"`

	// WatchSchedule is a cron spec or descriptor such as "@every 30m".
	WatchSchedule string `split_words:"true" default:"@every 30m"`
	Category      string `default:"free"`
	BatchSize     int    `split_words:"true" default:"5"`
	Concurrency   int    `default:"2"`
}

// Load reads envFile (when it exists) into the process environment and then
// parses the FREESTUFF_* variables. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "failed to load %s", envFile)
			}
			log.Debug().Str("file", envFile).Msg("env file not found, using environment only")
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values envconfig cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.Wrap(client.ErrNoAPIKey, "FREESTUFF_API_KEY")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.RPS < 0 {
		return errors.New("rps must not be negative")
	}
	if c.BatchSize < 1 || c.BatchSize > client.MaxBatchSize {
		return errors.Errorf("batch size must be between 1 and %d", client.MaxBatchSize)
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	return nil
}

// ClientConfig maps c onto a client.Config.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig()
	cfg.APIKey = c.APIKey
	cfg.APIDomain = c.APIDomain
	cfg.Timeout = c.Timeout
	cfg.RequestsPerSecond = c.RPS
	cfg.Burst = c.Burst
	return cfg
}


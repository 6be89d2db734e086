package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"laborfetcher/internal/record"
)

// Config holds all configuration for the labor statistics fetcher.
type Config struct {
	// Credential for the BLS public API. Only the fetch path requires it.
	APIKey  string `mapstructure:"bls_api_key"`
	BaseURL string `mapstructure:"bls_base_url"`

	// What to fetch
	SeriesIDs []string `mapstructure:"series_ids"`
	StartYear int      `mapstructure:"start_year"`
	EndYear   int      `mapstructure:"end_year"` // 0 means the current calendar year

	// Where and how to persist
	DataFile    string `mapstructure:"data_file"`
	MergePolicy string `mapstructure:"merge_policy"`
	AtomicWrite bool   `mapstructure:"atomic_write"`

	// Transport policy. Zero values mean no timeout and no retries.
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	HTTPRetryCount    int           `mapstructure:"http_retry_count"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogOutput string `mapstructure:"log_output"`
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values.
//
// When configFile is empty, config.yaml is looked up in the working directory
// and in $HOME/.laborfetcher, and a missing file is not an error.
//
// Expected environment variables:
//   - BLS_API_KEY
//   - BLS_BASE_URL (optional, defaults to production)
//   - BLS_SERIES_IDS (optional, comma separated)
//   - BLS_START_YEAR, BLS_END_YEAR (optional)
//   - BLS_DATA_FILE (optional, defaults to bls_data.csv)
//   - BLS_MERGE_POLICY (optional, exact or latest)
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.laborfetcher")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	bindEnv(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bls_base_url", DefaultBaseURL)
	v.SetDefault("series_ids", append([]string(nil), DefaultSeriesIDs...))
	v.SetDefault("start_year", DefaultStartYear)
	v.SetDefault("end_year", 0)
	v.SetDefault("data_file", DefaultDataFile)
	v.SetDefault("merge_policy", DefaultMergePolicy)
	v.SetDefault("atomic_write", false)
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("http_retry_count", 0)
	v.SetDefault("requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_output", "stderr")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("bls_api_key", EnvAPIKey)
	_ = v.BindEnv("bls_base_url", "BLS_BASE_URL")
	_ = v.BindEnv("series_ids", "BLS_SERIES_IDS")
	_ = v.BindEnv("start_year", "BLS_START_YEAR")
	_ = v.BindEnv("end_year", "BLS_END_YEAR")
	_ = v.BindEnv("data_file", "BLS_DATA_FILE")
	_ = v.BindEnv("merge_policy", "BLS_MERGE_POLICY")
	_ = v.BindEnv("atomic_write", "BLS_ATOMIC_WRITE")
	_ = v.BindEnv("http_timeout", "BLS_HTTP_TIMEOUT")
	_ = v.BindEnv("http_retry_count", "BLS_HTTP_RETRY_COUNT")
	_ = v.BindEnv("requests_per_second", "BLS_REQUESTS_PER_SECOND")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_format", "LOG_FORMAT")
	_ = v.BindEnv("log_output", "LOG_OUTPUT")
}

// Validate checks the settings shared by every command. The API key is not
// checked here; see RequireAPIKey.
func (c *Config) Validate() error {
	cerr := &ConfigurationError{}

	if len(c.SeriesIDs) == 0 {
		cerr.Missing = append(cerr.Missing, "series_ids")
	}
	for _, id := range c.SeriesIDs {
		if strings.TrimSpace(id) == "" {
			cerr.addInvalid("series_ids contains an empty identifier")
			break
		}
	}
	if c.DataFile == "" {
		cerr.Missing = append(cerr.Missing, "data_file")
	}
	if c.StartYear <= 0 {
		cerr.addInvalid("start_year must be positive, got %d", c.StartYear)
	}
	if c.EndYear != 0 && c.EndYear < c.StartYear {
		cerr.addInvalid("end_year %d is before start_year %d", c.EndYear, c.StartYear)
	}
	if _, err := record.ParsePolicy(c.MergePolicy); err != nil {
		cerr.addInvalid("%v", err)
	}
	if c.HTTPTimeout < 0 {
		cerr.addInvalid("http_timeout must not be negative")
	}
	if c.HTTPRetryCount < 0 {
		cerr.addInvalid("http_retry_count must not be negative")
	}
	if c.RequestsPerSecond <= 0 {
		cerr.addInvalid("requests_per_second must be positive")
	}

	if cerr.empty() {
		return nil
	}
	return cerr
}

// RequireAPIKey returns a ConfigurationError when no BLS key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return MissingAPIKey()
	}
	return nil
}

// Policy returns the parsed merge policy. Call Validate first.
func (c *Config) Policy() record.Policy {
	p, _ := record.ParsePolicy(c.MergePolicy)
	return p
}

package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FailurePolicyAbort skips the aggregate commit when any API of the refresh cycle fails
	FailurePolicyAbort = "abort"
	// FailurePolicyIsolate logs per-API failures and commits the aggregate of the remaining APIs
	FailurePolicyIsolate = "isolate"

	defaultTimeframe      = "LAST_5_MINUTES"
	defaultMaxPictureSize = "1MB"
	defaultRequestTimeout = 10
	defaultRetention      = 7 * 24 * 3600
)

// Config maps to the config.toml file for the health-check dashboard service
type Config struct {
	ListenAddress                   string   `toml:"ListenAddress"`
	StaticDir                       string   `toml:"StaticDir"`
	ManagementURL                   string   `toml:"ManagementURL"`
	EnvironmentURL                  string   `toml:"EnvironmentURL"`
	RequestTimeoutInSeconds         uint32   `toml:"RequestTimeoutInSeconds"`
	AnalyticsClientTimeoutInSeconds uint32   `toml:"AnalyticsClientTimeoutInSeconds"`
	RefreshIntervalInSeconds        uint32   `toml:"RefreshIntervalInSeconds"`
	DefaultTimeframe                string   `toml:"DefaultTimeframe"`
	HideApisWithoutHealthCheck      bool     `toml:"HideApisWithoutHealthCheck"`
	FailurePolicy                   string   `toml:"FailurePolicy"`
	RetentionSeconds                int      `toml:"RetentionSeconds"`
	MaxPictureSize                  string   `toml:"MaxPictureSize"`
	ReadonlySettings                []string `toml:"ReadonlySettings"`

	Logging LoggingConfig `toml:"Logging"`
}

// LoggingConfig holds the API logging settings the dashboard starts with
type LoggingConfig struct {
	MaxDurationMillis int64 `toml:"MaxDurationMillis"`
	AuditEnabled      bool  `toml:"AuditEnabled"`
	AuditTrailEnabled bool  `toml:"AuditTrailEnabled"`
	UserDisplayed     bool  `toml:"UserDisplayed"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills the optional fields left empty in the file
func (cfg *Config) ApplyDefaults() {
	if cfg.DefaultTimeframe == "" {
		cfg.DefaultTimeframe = defaultTimeframe
	}
	if cfg.FailurePolicy == "" {
		cfg.FailurePolicy = FailurePolicyAbort
	}
	if cfg.MaxPictureSize == "" {
		cfg.MaxPictureSize = defaultMaxPictureSize
	}
	if cfg.RequestTimeoutInSeconds == 0 {
		cfg.RequestTimeoutInSeconds = defaultRequestTimeout
	}
	if cfg.AnalyticsClientTimeoutInSeconds == 0 {
		cfg.AnalyticsClientTimeoutInSeconds = cfg.RequestTimeoutInSeconds
	}
	if cfg.RetentionSeconds == 0 {
		cfg.RetentionSeconds = defaultRetention
	}
	if cfg.EnvironmentURL == "" {
		cfg.EnvironmentURL = cfg.ManagementURL
	}
}

// Validate checks the values that can not be defaulted
func (cfg *Config) Validate() error {
	if cfg.ManagementURL == "" {
		return errEmptyManagementURL
	}
	if cfg.FailurePolicy != FailurePolicyAbort && cfg.FailurePolicy != FailurePolicyIsolate {
		return fmt.Errorf("%w: %s", errUnknownFailurePolicy, cfg.FailurePolicy)
	}
	if cfg.RetentionSeconds < 0 {
		return errNegativeRetention
	}

	return nil
}

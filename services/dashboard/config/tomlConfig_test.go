package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testString = `
ListenAddress = "0.0.0.0:8080"
StaticDir = "./frontend/build"
ManagementURL = "https://apim.example.com/management/organizations/DEFAULT/environments/DEFAULT"
RequestTimeoutInSeconds = 5
AnalyticsClientTimeoutInSeconds = 30
RefreshIntervalInSeconds = 60
DefaultTimeframe = "LAST_HOUR"
HideApisWithoutHealthCheck = true
FailurePolicy = "isolate"
RetentionSeconds = 86400
MaxPictureSize = "500KB"
ReadonlySettings = ["logging.maxDurationMillis", "logging.user.displayed"]

[Logging]
MaxDurationMillis = 5000
AuditEnabled = true
AuditTrailEnabled = false
UserDisplayed = true
`

func TestConfig(t *testing.T) {
	t.Parallel()

	expectedCfg := Config{
		ListenAddress:                   "0.0.0.0:8080",
		StaticDir:                       "./frontend/build",
		ManagementURL:                   "https://apim.example.com/management/organizations/DEFAULT/environments/DEFAULT",
		RequestTimeoutInSeconds:         5,
		AnalyticsClientTimeoutInSeconds: 30,
		RefreshIntervalInSeconds:        60,
		DefaultTimeframe:                "LAST_HOUR",
		HideApisWithoutHealthCheck:      true,
		FailurePolicy:                   FailurePolicyIsolate,
		RetentionSeconds:                86400,
		MaxPictureSize:                  "500KB",
		ReadonlySettings:                []string{"logging.maxDurationMillis", "logging.user.displayed"},
		Logging: LoggingConfig{
			MaxDurationMillis: 5000,
			AuditEnabled:      true,
			UserDisplayed:     true,
		},
	}

	cfg := Config{}

	err := toml.Unmarshal([]byte(testString), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, expectedCfg, cfg)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file should error", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
	t.Run("invalid toml should error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("ListenAddress = "), 0644))

		cfg, err := LoadConfig(path)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})
	t.Run("minimal file should apply defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`ManagementURL = "http://localhost:8083"`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "LAST_5_MINUTES", cfg.DefaultTimeframe)
		assert.Equal(t, FailurePolicyAbort, cfg.FailurePolicy)
		assert.Equal(t, "1MB", cfg.MaxPictureSize)
		assert.Equal(t, uint32(10), cfg.RequestTimeoutInSeconds)
		assert.Equal(t, uint32(10), cfg.AnalyticsClientTimeoutInSeconds)
		assert.Equal(t, "http://localhost:8083", cfg.EnvironmentURL)
	})
	t.Run("shipped config file should load", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig("../config.toml")
		require.NoError(t, err)
		assert.Equal(t, uint32(30), cfg.RefreshIntervalInSeconds)
		assert.Equal(t, cfg.ManagementURL, cfg.EnvironmentURL)
		assert.Empty(t, cfg.ReadonlySettings)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("empty management url should error", func(t *testing.T) {
		cfg := Config{}
		cfg.ApplyDefaults()
		assert.ErrorIs(t, cfg.Validate(), errEmptyManagementURL)
	})
	t.Run("unknown failure policy should error", func(t *testing.T) {
		cfg := Config{ManagementURL: "http://localhost", FailurePolicy: "retry"}
		cfg.ApplyDefaults()
		err := cfg.Validate()
		assert.ErrorIs(t, err, errUnknownFailurePolicy)
		assert.Contains(t, err.Error(), "retry")
	})
	t.Run("negative retention should error", func(t *testing.T) {
		cfg := Config{ManagementURL: "http://localhost", RetentionSeconds: -1}
		cfg.ApplyDefaults()
		assert.ErrorIs(t, cfg.Validate(), errNegativeRetention)
	})
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/betterment-ynab/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

// isolate runs the test in an empty directory with HOME pointing there, so
// no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, "convert_ignore.txt", config.Convert.IgnoreFile)
	assert.Equal(t, "_YNAB.csv", config.Convert.OutputSuffix)
	assert.Equal(t, "earliest", config.Convert.DateAfter)
	assert.Equal(t, 30, config.Download.Days)
	assert.Equal(t, 4, config.Download.MaxLoginAttempts)
	assert.Equal(t, "betterment", config.Download.KeyringName)
	assert.Empty(t, config.Download.Accounts)

	cutoff, err := config.Cutoff()
	require.NoError(t, err)
	assert.True(t, cutoff.IsEarliest())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	t.Setenv("BYNAB_LOG_LEVEL", "debug")
	t.Setenv("BYNAB_LOG_FORMAT", "json")
	t.Setenv("BYNAB_CSV_DELIMITER", ";")
	t.Setenv("BYNAB_CONVERT_DATE_AFTER", "2023-01-15")
	t.Setenv("BYNAB_DOWNLOAD_DAYS", "7")
	t.Setenv("BYNAB_DOWNLOAD_USER", "me@example.com")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, "2023-01-15", config.Convert.DateAfter)
	assert.Equal(t, 7, config.Download.Days)
	assert.Equal(t, "me@example.com", config.Download.User)
}

const sampleConfig = `
log:
  level: "warn"
download:
  user: "me@example.com"
  account_group_id: "12345"
  days: 14
  accounts:
    savings: "111"
    checking: "222"
`

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sampleConfig), 0600))

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, 14, config.Download.Days)
	assert.Equal(t, map[string]string{"savings": "111", "checking": "222"}, config.Download.Accounts)
	assert.NoError(t, config.RequireDownload())
}

func TestInitializeConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "12345", config.Download.AccountGroupID)

	_, err = InitializeConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sampleConfig), 0600))

	t.Setenv("BYNAB_LOG_LEVEL", "error")
	t.Setenv("BYNAB_DOWNLOAD_DAYS", "60")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)                // env var wins
	assert.Equal(t, 60, config.Download.Days)                 // env var wins
	assert.Equal(t, "12345", config.Download.AccountGroupID)  // config file value
	assert.Equal(t, "_YNAB.csv", config.Convert.OutputSuffix) // default
}

func TestInitializeConfig_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("BYNAB_CSV_DELIMITER", ";;")

	_, err := InitializeConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "csv.delimiter must be a single character")
}

func validConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		CSV:     CSVConfig{Delimiter: ","},
		Convert: ConvertConfig{IgnoreFile: "convert_ignore.txt", OutputSuffix: "_YNAB.csv", DateAfter: "earliest"},
		Download: DownloadConfig{
			BaseURL:          "https://wwws.betterment.com",
			Days:             30,
			MaxLoginAttempts: 4,
			TimeoutSeconds:   30,
		},
	}
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "log.format must be one of [text json]",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "csv.delimiter must be a single character",
		},
		{
			name:         "empty output suffix",
			modifyConfig: func(c *Config) { c.Convert.OutputSuffix = "" },
			expectError:  "convert.output_suffix failed 'required' validation",
		},
		{
			name:         "bad cutoff",
			modifyConfig: func(c *Config) { c.Convert.DateAfter = "last week" },
			expectError:  "convert.date_after must be 'earliest' or YYYY-MM-DD",
		},
		{
			name:         "bad base url",
			modifyConfig: func(c *Config) { c.Download.BaseURL = "betterment" },
			expectError:  "download.base_url failed 'url' validation",
		},
		{
			name:         "zero days",
			modifyConfig: func(c *Config) { c.Download.Days = 0 },
			expectError:  "download.days must be min 1",
		},
		{
			name:         "too many login attempts",
			modifyConfig: func(c *Config) { c.Download.MaxLoginAttempts = 50 },
			expectError:  "download.max_login_attempts must be max 10",
		},
		{
			name:         "negative rate",
			modifyConfig: func(c *Config) { c.Download.RequestsPerSecond = -1 },
			expectError:  "download.requests_per_second must be gte 0",
		},
		{
			name:         "empty account number",
			modifyConfig: func(c *Config) { c.Download.Accounts = map[string]string{"savings": ""} },
			expectError:  "download.accounts[savings]",
		},
	}

	require.NoError(t, validateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestRequireDownload(t *testing.T) {
	config := validConfig()
	err := config.RequireDownload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDownloadNotConfigured))
	assert.Contains(t, err.Error(), "download.user, download.account_group_id, download.accounts")

	config.Download.User = "me@example.com"
	config.Download.AccountGroupID = "1"
	config.Download.Accounts = map[string]string{"savings": "111"}
	assert.NoError(t, config.RequireDownload())
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	config.Log.Level = "debug"
	logger := ConfigureLoggingFromConfig(config)
	require.NotNil(t, logger)

	adapter, ok := logger.(*logging.LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, "debug", adapter.Level().String())
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BYNAB_TEST_ONLY=from-dotenv\n"), 0600))
	t.Setenv("BYNAB_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("BYNAB_TEST_ONLY"))

	logger := logging.NewMockLogger()
	assert.Equal(t, ".env", loadEnvFile(logger, ".env"))
	assert.Equal(t, "from-dotenv", os.Getenv("BYNAB_TEST_ONLY"))

	assert.Equal(t, "", loadEnvFile(logger, "missing.env"))
	assert.True(t, logger.HasEntry("DEBUG", "No .env file found, using environment variables"))
}

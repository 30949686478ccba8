// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fjacquet/betterment-ynab/internal/exclusion"
	"fjacquet/betterment-ynab/internal/fileutils"
	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "BYNAB"

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	CSV      CSVConfig      `mapstructure:"csv"`
	Convert  ConvertConfig  `mapstructure:"convert"`
	Download DownloadConfig `mapstructure:"download"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" validate:"len=1"`
}

// ConvertConfig holds the conversion defaults.
type ConvertConfig struct {
	IgnoreFile   string `mapstructure:"ignore_file" validate:"required"`
	OutputSuffix string `mapstructure:"output_suffix" validate:"required"`
	// DateAfter is "earliest" or a YYYY-MM-DD date.
	DateAfter string `mapstructure:"date_after"`
}

// DownloadConfig describes the portal and the accounts to download.
type DownloadConfig struct {
	BaseURL           string            `mapstructure:"base_url" validate:"omitempty,url"`
	LoginPath         string            `mapstructure:"login_path"`
	User              string            `mapstructure:"user" validate:"omitempty,email"`
	KeyringName       string            `mapstructure:"keyring_name"`
	Days              int               `mapstructure:"days" validate:"min=1,max=3650"`
	AccountGroupID    string            `mapstructure:"account_group_id"`
	Accounts          map[string]string `mapstructure:"accounts" validate:"dive,keys,required,endkeys,required"`
	OutputDir         string            `mapstructure:"output_dir"`
	MaxLoginAttempts  int               `mapstructure:"max_login_attempts" validate:"min=1,max=10"`
	RequestsPerSecond float64           `mapstructure:"requests_per_second" validate:"gte=0"`
	TimeoutSeconds    int               `mapstructure:"timeout_seconds" validate:"min=1,max=300"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// An explicit cfgFile replaces the search path and must exist.
func InitializeConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.betterment-ynab")
		v.AddConfigPath(".betterment-ynab")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional when searched)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("convert.ignore_file", exclusion.DefaultFile)
	v.SetDefault("convert.output_suffix", fileutils.DefaultOutputSuffix)
	v.SetDefault("convert.date_after", models.EarliestKeyword)

	v.SetDefault("download.base_url", "https://wwws.betterment.com")
	v.SetDefault("download.login_path", "/")
	v.SetDefault("download.user", "")
	v.SetDefault("download.keyring_name", "betterment")
	v.SetDefault("download.days", 30)
	v.SetDefault("download.account_group_id", "")
	v.SetDefault("download.output_dir", ".")
	v.SetDefault("download.max_login_attempts", 4)
	v.SetDefault("download.requests_per_second", 2.0)
	v.SetDefault("download.timeout_seconds", 30)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if _, err := models.ParseCutoff(config.Convert.DateAfter); err != nil {
		return fmt.Errorf("convert.date_after must be 'earliest' or YYYY-MM-DD, got: %s", config.Convert.DateAfter)
	}

	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must be a single character, got: %q", field, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got: %v", field, fe.Param(), fe.Value()))
		case "min", "max", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s, got: %v", field, fe.Tag(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed '%s' validation, got: %v", field, fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ErrDownloadNotConfigured is returned by RequireDownload.
var ErrDownloadNotConfigured = errors.New("download not configured")

// RequireDownload checks the settings only the download path needs.
func (c *Config) RequireDownload() error {
	var missing []string
	if c.Download.BaseURL == "" {
		missing = append(missing, "download.base_url")
	}
	if c.Download.User == "" {
		missing = append(missing, "download.user")
	}
	if c.Download.AccountGroupID == "" {
		missing = append(missing, "download.account_group_id")
	}
	if len(c.Download.Accounts) == 0 {
		missing = append(missing, "download.accounts")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrDownloadNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Cutoff returns the parsed convert.date_after.
func (c *Config) Cutoff() (models.Cutoff, error) {
	return models.ParseCutoff(c.Convert.DateAfter)
}

// Delimiter returns csv.delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// ConfigureLoggingFromConfig builds the application logger from the Config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}

// Package container provides dependency injection for the betterment-ynab
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"time"

	"fjacquet/betterment-ynab/internal/common"
	"fjacquet/betterment-ynab/internal/config"
	"fjacquet/betterment-ynab/internal/credentials"
	"fjacquet/betterment-ynab/internal/exclusion"
	"fjacquet/betterment-ynab/internal/fetcher"
	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"
	"fjacquet/betterment-ynab/internal/transformer"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. The download dependencies are only
// built on request, since converting needs none of them.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	transformer *transformer.Transformer

	fetcher     fetcher.Fetcher
	credentials credentials.Source
}

// Option customizes a Container at construction.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithFetcher replaces the portal fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Container) { c.fetcher = f }
}

// WithCredentials replaces the credential chain.
func WithCredentials(src credentials.Source) Option {
	return func(c *Container) { c.credentials = src }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = config.ConfigureLoggingFromConfig(cfg)
	}

	common.SetDelimiter(cfg.Delimiter())
	c.transformer = transformer.New(c.logger)

	c.logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldDelimiter, Value: cfg.CSV.Delimiter})
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTransformer returns the transaction transformer.
func (c *Container) GetTransformer() *transformer.Transformer {
	return c.transformer
}

// ConvertOptions resolves the conversion inputs: dateAfter overrides
// convert.date_after when non-empty, and the exclusion list is read from
// convert.ignore_file.
func (c *Container) ConvertOptions(dateAfter string, verbose bool) (transformer.Options, error) {
	cutoff, err := c.config.Cutoff()
	if dateAfter != "" {
		cutoff, err = models.ParseCutoff(dateAfter)
	} else {
		dateAfter = c.config.Convert.DateAfter
	}
	if err != nil {
		return transformer.Options{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or %s): %w", dateAfter, models.EarliestKeyword, err)
	}

	excluded, err := exclusion.Load(c.config.Convert.IgnoreFile, c.logger)
	if err != nil {
		return transformer.Options{}, err
	}

	return transformer.Options{
		Cutoff:       cutoff,
		Exclusions:   excluded,
		Verbose:      verbose,
		OutputSuffix: c.config.Convert.OutputSuffix,
	}, nil
}

// GetFetcher returns the portal fetcher, building it from the download
// configuration on first use.
func (c *Container) GetFetcher() (fetcher.Fetcher, error) {
	if c.fetcher != nil {
		return c.fetcher, nil
	}
	if err := c.config.RequireDownload(); err != nil {
		return nil, err
	}

	d := c.config.Download
	f, err := fetcher.NewPortalFetcher(fetcher.PortalConfig{
		BaseURL:           d.BaseURL,
		LoginPath:         d.LoginPath,
		AccountGroupID:    d.AccountGroupID,
		OutputDir:         d.OutputDir,
		MaxLoginAttempts:  d.MaxLoginAttempts,
		RequestsPerSecond: d.RequestsPerSecond,
		Timeout:           time.Duration(d.TimeoutSeconds) * time.Second,
	}, c.logger)
	if err != nil {
		return nil, err
	}
	c.fetcher = f
	return f, nil
}

// GetCredentials returns the credential source: environment, then keyring,
// then an interactive prompt on in/out.
func (c *Container) GetCredentials(in io.Reader, out io.Writer) credentials.Source {
	if c.credentials != nil {
		return c.credentials
	}
	d := c.config.Download
	return credentials.NewChain(c.logger,
		credentials.EnvSource{User: d.User},
		credentials.KeyringSource{Service: d.KeyringName, User: d.User},
		credentials.PromptSource{User: d.User, In: in, Out: out},
	)
}

// Accounts returns the configured download accounts sorted by name.
func (c *Container) Accounts() []fetcher.Account {
	return fetcher.AccountsFromMap(c.config.Download.Accounts)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}

// Package common contains the flows shared by the command handlers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/betterment-ynab/internal/container"
	"fjacquet/betterment-ynab/internal/dateutils"
	"fjacquet/betterment-ynab/internal/fetcher"
	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"
)

// DefaultInput is converted when no file is named.
const DefaultInput = "transactions.csv"

// ErrNoFiles is returned when a download produced nothing to convert.
var ErrNoFiles = errors.New("no files to convert")

// ConvertFiles converts every path with the configured exclusion list and
// dateAfter (empty means convert.date_after). All files are attempted; the
// returned error reports the ones that failed.
func ConvertFiles(c *container.Container, paths []string, dateAfter string, verbose bool) error {
	log := c.GetLogger()
	if len(paths) == 0 {
		paths = []string{DefaultInput}
	}

	opts, err := c.ConvertOptions(dateAfter, verbose)
	if err != nil {
		return err
	}

	log.Debug("Converting files",
		logging.Field{Key: logging.FieldCount, Value: len(paths)},
		logging.Field{Key: logging.FieldCutoff, Value: opts.Cutoff.String()},
		logging.Field{Key: logging.FieldExcluded, Value: opts.Exclusions.Len()})

	results, err := c.GetTransformer().ConvertFiles(paths, opts)
	converted := 0
	for _, r := range results {
		if r.Err == nil {
			converted++
		}
	}
	log.Info(fmt.Sprintf("Converted %d of %d files", converted, len(results)))
	return err
}

// Download logs into the portal and downloads every configured account.
// days <= 0 uses download.days. Files of the accounts that succeeded are
// returned even when others failed. progress receives a progress bar unless
// it is nil.
func Download(ctx context.Context, c *container.Container, days int, in io.Reader, prompt, progress io.Writer) ([]string, error) {
	log := c.GetLogger()

	f, err := c.GetFetcher()
	if err != nil {
		return nil, err
	}
	accounts := c.Accounts()
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured under download.accounts")
	}
	if days <= 0 {
		days = c.GetConfig().Download.Days
	}

	creds, err := c.GetCredentials(in, prompt).Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain credentials: %w", err)
	}
	if err := f.Login(ctx, creds); err != nil {
		return nil, err
	}

	log.Info("Downloading transactions",
		logging.Field{Key: logging.FieldCount, Value: len(accounts)},
		logging.Field{Key: logging.FieldCutoff, Value: dateutils.DaysAgo(time.Now(), days).Format(dateutils.LayoutISO)})
	files, err := fetcher.DownloadAll(ctx, f, accounts, days, log, progress)
	log.Info(fmt.Sprintf("Downloaded %d of %d accounts", len(files), len(accounts)))
	return files, err
}

// Sync downloads then converts what was downloaded. The cutoff defaults to
// earliest since the download window already bounds the history.
func Sync(ctx context.Context, c *container.Container, days int, dateAfter string, verbose bool, in io.Reader, prompt, progress io.Writer) error {
	files, downloadErr := Download(ctx, c, days, in, prompt, progress)
	if len(files) == 0 {
		if downloadErr != nil {
			return downloadErr
		}
		return ErrNoFiles
	}
	if dateAfter == "" {
		dateAfter = models.EarliestKeyword
	}
	return errors.Join(downloadErr, ConvertFiles(c, files, dateAfter, verbose))
}

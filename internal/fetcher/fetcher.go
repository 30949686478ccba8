// Package fetcher downloads transaction exports from the brokerage portal.
// The conversion code never depends on it: callers only see the Fetcher
// interface and the file paths it produces.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"fjacquet/betterment-ynab/internal/credentials"
	"fjacquet/betterment-ynab/internal/logging"

	"github.com/schollz/progressbar/v3"
)

// ErrNotLoggedIn is returned when a download is attempted before Login.
var ErrNotLoggedIn = errors.New("not logged in")

// Account is a portal account whose transactions are downloaded.
type Account struct {
	Name   string
	Number string
}

// Fetcher logs into the portal and downloads one export per account.
type Fetcher interface {
	Login(ctx context.Context, creds credentials.Credentials) error
	// FetchTransactions downloads the last sinceDays days of account and
	// returns the written files.
	FetchTransactions(ctx context.Context, account Account, sinceDays int) ([]string, error)
}

// AccountsFromMap turns a name → number mapping into accounts sorted by name.
func AccountsFromMap(m map[string]string) []Account {
	accounts := make([]Account, 0, len(m))
	for name, number := range m {
		accounts = append(accounts, Account{Name: name, Number: number})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts
}

// DownloadAll fetches every account in order. A failing account is logged
// and the rest are still attempted; the paths of successful downloads are
// returned together with the joined errors. When progress is non-nil a bar
// is drawn on it.
func DownloadAll(ctx context.Context, f Fetcher, accounts []Account, sinceDays int, logger logging.Logger, progress io.Writer) ([]string, error) {
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(accounts),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Downloading transactions..."),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(progress)
			}),
		)
	}

	var files []string
	var errs []error
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		paths, err := f.FetchTransactions(ctx, account, sinceDays)
		if err != nil {
			logger.WithError(err).Error("Failed to download transactions",
				logging.Field{Key: logging.FieldAccount, Value: account.Name})
			errs = append(errs, fmt.Errorf("account %s: %w", account.Name, err))
		} else {
			files = append(files, paths...)
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				logger.WithError(err).Warn("Failed to update progress bar")
			}
		}
	}
	return files, errors.Join(errs...)
}

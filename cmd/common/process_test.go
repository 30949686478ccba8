package common_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/betterment-ynab/cmd/common"
	"fjacquet/betterment-ynab/internal/config"
	"fjacquet/betterment-ynab/internal/container"
	"fjacquet/betterment-ynab/internal/credentials"
	"fjacquet/betterment-ynab/internal/fetcher"
	"fjacquet/betterment-ynab/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const export = "Date Completed,Transaction Description,Amount,Ending Balance\n" +
	"2023-03-01 10:00:00.000000,Coffee Shop,$-4.50,$120.00\n" +
	"2023-03-02 10:00:00.000000,Automatic Deposit,$100.00,$220.00\n"

// MockFetcher implements fetcher.Fetcher for testing
type MockFetcher struct {
	mock.Mock
	dir string
}

func (m *MockFetcher) Login(ctx context.Context, creds credentials.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockFetcher) FetchTransactions(ctx context.Context, account fetcher.Account, sinceDays int) ([]string, error) {
	args := m.Called(ctx, account, sinceDays)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	path := filepath.Join(m.dir, "transactions_"+account.Name+".csv")
	if err := os.WriteFile(path, []byte(args.String(0)), 0600); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

type fixedCredentials struct{}

func (fixedCredentials) Name() string { return "fixed" }

func (fixedCredentials) Credentials(context.Context) (credentials.Credentials, error) {
	return credentials.Credentials{User: "me@example.com", Password: "hunter2"}, nil
}

func newContainer(t *testing.T, dir string, opts ...container.Option) (*container.Container, *logging.MockLogger) {
	t.Helper()
	ignore := filepath.Join(dir, "convert_ignore.txt")
	require.NoError(t, os.WriteFile(ignore, []byte("Ignored payees\nAutomatic Deposit\n"), 0600))

	cfg := &config.Config{
		Log:     config.LogConfig{Level: "info", Format: "text"},
		CSV:     config.CSVConfig{Delimiter: ","},
		Convert: config.ConvertConfig{IgnoreFile: ignore, OutputSuffix: "_YNAB.csv", DateAfter: "earliest"},
		Download: config.DownloadConfig{
			Days:     30,
			Accounts: map[string]string{"savings": "111", "checking": "222"},
		},
	}
	logger := logging.NewMockLogger()
	c, err := container.NewContainer(cfg, append([]container.Option{container.WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return c, logger
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	c, logger := newContainer(t, dir)

	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(export), 0600))
	missing := filepath.Join(dir, "missing.csv")

	err := common.ConvertFiles(c, []string{missing, good}, "", false)
	require.Error(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "good_YNAB.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Payee,Category,Memo,Outflow,Inflow\n03/01/2023,Coffee Shop,,,4.50,0\n", string(content))
	assert.True(t, logger.HasEntry("INFO", "Converted 1 of 2 files"))
}

func TestConvertFiles_InvalidDate(t *testing.T) {
	c, _ := newContainer(t, t.TempDir())
	err := common.ConvertFiles(c, []string{"x.csv"}, "yesterday", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	f := &MockFetcher{dir: dir}
	f.On("Login", mock.Anything, mock.Anything).Return(nil)
	f.On("FetchTransactions", mock.Anything, fetcher.Account{Name: "checking", Number: "222"}, 7).Return("", errors.New("portal down"))
	f.On("FetchTransactions", mock.Anything, fetcher.Account{Name: "savings", Number: "111"}, 7).Return(export, nil)

	c, _ := newContainer(t, dir, container.WithFetcher(f), container.WithCredentials(fixedCredentials{}))

	err := common.Sync(context.Background(), c, 7, "", false, strings.NewReader(""), &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "portal down")

	f.AssertExpectations(t)
	assert.FileExists(t, filepath.Join(dir, "transactions_savings_YNAB.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "transactions_checking_YNAB.csv"))
}

func TestDownload_DefaultDaysAndLoginFailure(t *testing.T) {
	dir := t.TempDir()
	f := &MockFetcher{dir: dir}
	f.On("Login", mock.Anything, credentials.Credentials{User: "me@example.com", Password: "hunter2"}).
		Return(errors.New("login failed after 4 attempts"))

	c, _ := newContainer(t, dir, container.WithFetcher(f), container.WithCredentials(fixedCredentials{}))

	files, err := common.Download(context.Background(), c, 0, strings.NewReader(""), &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Empty(t, files)
	f.AssertNotCalled(t, "FetchTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownload_NotConfigured(t *testing.T) {
	c, _ := newContainer(t, t.TempDir())
	_, err := common.Download(context.Background(), c, 0, strings.NewReader(""), &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, config.ErrDownloadNotConfigured)
}

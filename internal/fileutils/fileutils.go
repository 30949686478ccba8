// Package fileutils provides the file helpers used by the converter and the
// downloader.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultOutputSuffix is appended to converted file names.
const DefaultOutputSuffix = "_YNAB.csv"

// extensionLength is the length of the ".csv" extension stripped from inputs.
const extensionLength = 4

// FileExists checks if a file exists and is not a directory.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates dirPath and its parents when missing.
func EnsureDirectoryExists(dirPath string) error {
	if DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// OutputPath derives the converted file name from an input file name: the
// four-character extension is dropped and suffix appended, so
// "transactions_ira.csv" becomes "transactions_ira_YNAB.csv". Names too short
// to carry an extension only get the suffix. An empty suffix means
// DefaultOutputSuffix.
func OutputPath(inputPath, suffix string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	dir, name := filepath.Split(inputPath)
	if len(name) > extensionLength {
		name = name[:len(name)-extensionLength]
	}
	return dir + name + suffix
}

// DownloadPath is where the export of account is saved inside dir.
func DownloadPath(dir, account string) string {
	return filepath.Join(dir, fmt.Sprintf("transactions_%s.csv", account))
}

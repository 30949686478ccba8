// Package common provides the CSV plumbing shared by the converter: header
// inspection, gocsv-backed decoding of export rows and encoding of import
// rows with a configurable delimiter.
package common

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// Delimiter is the output field separator.
var Delimiter = ','

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SetDelimiter sets the output field separator.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// StripBOM drops a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// ReadHeader returns the first record of data, or nil for empty input.
func ReadHeader(data []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	return header, nil
}

// ReadCSV decodes data into a slice of TCSVRow using the struct's csv tags.
// Records may be shorter than the header; their missing trailing fields are
// left empty. Header-only input yields an empty slice.
func ReadCSV[TCSVRow any](data []byte) ([]TCSVRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []TCSVRow{}, nil
		}
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// WriteCSV encodes rows to w with a header line, using Delimiter. The header
// is written even when rows is empty.
func WriteCSV[TRow any](w io.Writer, rows []TRow) error {
	if rows == nil {
		rows = []TRow{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile encodes rows into csvFile, creating parent directories.
// The rows are rendered in memory first so a failed encode never leaves a
// partial file behind.
func WriteCSVFile[TRow any](csvFile string, rows []TRow, logger logging.Logger) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return err
	}

	if dir := filepath.Dir(csvFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &parsererror.IOError{Path: dir, Op: "mkdir", Err: err}
		}
	}

	if err := os.WriteFile(csvFile, buf.Bytes(), 0o600); err != nil {
		return &parsererror.IOError{Path: csvFile, Op: "write", Err: err}
	}

	logger.Debug("Wrote CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(Delimiter)})
	return nil
}

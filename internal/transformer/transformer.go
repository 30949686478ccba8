// Package transformer converts brokerage transaction exports into budgeting
// import files. A conversion parses the export, drops pending rows, splits the
// signed amount into outflow and inflow, filters by cutoff date and excluded
// payees, and writes one output file next to the input.
package transformer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/betterment-ynab/internal/common"
	"fjacquet/betterment-ynab/internal/currencyutils"
	"fjacquet/betterment-ynab/internal/dateutils"
	"fjacquet/betterment-ynab/internal/exclusion"
	"fjacquet/betterment-ynab/internal/fileutils"
	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"
	"fjacquet/betterment-ynab/internal/parser"
	"fjacquet/betterment-ynab/internal/parsererror"
)

const readerPath = "(from reader)"

// Options are the fully resolved inputs of a conversion.
type Options struct {
	// Cutoff keeps only transactions completed strictly after it.
	Cutoff models.Cutoff
	// Exclusions lists payees that are never written.
	Exclusions exclusion.Set
	// Verbose logs the written rows and destination at info level.
	Verbose bool
	// OutputSuffix replaces the input extension; empty means "_YNAB.csv".
	OutputSuffix string
}

// Transformer converts export files. It is stateless apart from its logger
// and safe to reuse across files.
type Transformer struct {
	parser.BaseParser
}

var _ parser.FullParser = (*Transformer)(nil)

// New returns a Transformer logging to logger.
func New(logger logging.Logger) *Transformer {
	return &Transformer{BaseParser: parser.NewBaseParser(logger)}
}

// Parse implements parser.Parser.
func (t *Transformer) Parse(r io.Reader) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.IOError{Path: readerPath, Op: "read", Err: err}
	}
	return t.parse(data, readerPath)
}

func (t *Transformer) parse(data []byte, path string) ([]models.Transaction, error) {
	data = common.StripBOM(data)

	header, err := common.ReadHeader(data)
	if err != nil {
		return nil, &parsererror.MalformedInputError{Path: path, Err: err}
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &parsererror.MalformedInputError{Path: path, Missing: missing}
	}

	rows, err := common.ReadCSV[models.ExportRow](data)
	if err != nil {
		return nil, &parsererror.MalformedInputError{Path: path, Err: err}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		if isPending(row) {
			t.GetLogger().Debug("Skipping pending transaction",
				logging.Field{Key: logging.FieldRow, Value: i + 1})
			dropped++
			continue
		}
		tx, err := convertRow(i+1, row)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	t.GetLogger().Debug("Parsed transaction export",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldDropped, Value: dropped})
	return transactions, nil
}

// isPending reports a row without an ending balance. Such rows are not yet
// settled and are left out of the conversion.
func isPending(row models.ExportRow) bool {
	return strings.TrimSpace(row.EndingBalance) == ""
}

func convertRow(rowNum int, row models.ExportRow) (models.Transaction, error) {
	amount, err := currencyutils.ParseCurrency(row.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.CurrencyParseError{
			Row: rowNum, Field: models.ColumnAmount, Value: row.Amount, Err: err,
		}
	}

	balance, err := currencyutils.ParseCurrency(row.EndingBalance)
	if err != nil {
		return models.Transaction{}, &parsererror.CurrencyParseError{
			Row: rowNum, Field: models.ColumnEndingBalance, Value: row.EndingBalance, Err: err,
		}
	}

	completed, err := dateutils.ParseCompleted(row.DateCompleted)
	if err != nil {
		return models.Transaction{}, &parsererror.DateParseError{
			Row: rowNum, Value: row.DateCompleted, Layout: dateutils.LayoutCompleted, Err: err,
		}
	}

	return models.Transaction{
		Completed:     completed,
		Description:   row.TransactionDescription,
		Amount:        amount,
		EndingBalance: balance,
	}, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range models.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Transform applies the cutoff and exclusion filters and projects the
// surviving transactions onto the import format, keeping their order.
func (t *Transformer) Transform(transactions []models.Transaction, opts Options) []models.BudgetRow {
	rows := make([]models.BudgetRow, 0, len(transactions))
	beforeCutoff, excluded := 0, 0
	for _, tx := range transactions {
		if !opts.Cutoff.Admits(tx.Completed) {
			beforeCutoff++
			continue
		}
		if opts.Exclusions.Contains(tx.Description) {
			excluded++
			continue
		}
		rows = append(rows, models.NewBudgetRow(tx))
	}

	t.GetLogger().Debug("Filtered transactions",
		logging.Field{Key: logging.FieldCutoff, Value: opts.Cutoff.String()},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDropped, Value: beforeCutoff},
		logging.Field{Key: logging.FieldExcluded, Value: excluded})
	return rows
}

// ValidateFormat implements parser.Validator: a file is valid when its header
// carries every required column.
func (t *Transformer) ValidateFormat(filePath string) (bool, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return false, &parsererror.IOError{Path: filePath, Op: "open", Err: err}
	}
	header, err := common.ReadHeader(common.StripBOM(data))
	if err != nil {
		return false, &parsererror.MalformedInputError{Path: filePath, Err: err}
	}
	return len(missingColumns(header)) == 0, nil
}

// ConvertFile converts one export and returns the path of the written file.
// Nothing is written when parsing fails.
func (t *Transformer) ConvertFile(inputPath string, opts Options) (string, error) {
	log := t.GetLogger().WithField(logging.FieldInputFile, inputPath)

	data, err := os.ReadFile(inputPath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return "", &parsererror.IOError{Path: inputPath, Op: "open", Err: err}
	}

	transactions, err := t.parse(data, inputPath)
	if err != nil {
		return "", parsererror.WithPath(inputPath, err)
	}

	rows := t.Transform(transactions, opts)
	outputPath := fileutils.OutputPath(inputPath, opts.OutputSuffix)

	if err := t.WriteToCSV(rows, outputPath); err != nil {
		return "", err
	}

	report := log.Debug
	if opts.Verbose {
		report = log.Info
	}
	report("Converted transactions\n"+RenderTable(rows),
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	report("Saved results to "+outputPath,
		logging.Field{Key: logging.FieldOutputFile, Value: outputPath})

	return outputPath, nil
}

// Result is the outcome of converting one file of a batch.
type Result struct {
	Input  string
	Output string
	Err    error
}

// ConvertFiles converts each path independently. A failing file does not stop
// the batch; its error is kept in its Result and joined into the returned
// error.
func (t *Transformer) ConvertFiles(paths []string, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	var errs []error
	for _, path := range paths {
		out, err := t.ConvertFile(path, opts)
		results = append(results, Result{Input: path, Output: out, Err: err})
		if err != nil {
			t.GetLogger().WithError(err).Error("Failed to convert file",
				logging.Field{Key: logging.FieldInputFile, Value: path})
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return results, fmt.Errorf("%d of %d files failed: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return results, nil
}

// ConvertBytes runs the whole conversion in memory and returns the output
// file content. It is the pure core of ConvertFile.
func (t *Transformer) ConvertBytes(data []byte, opts Options) ([]byte, error) {
	transactions, err := t.parse(data, readerPath)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := common.WriteCSV(&buf, t.Transform(transactions, opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

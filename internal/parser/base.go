// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"fjacquet/betterment-ynab/internal/common"
	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"
)

// BaseParser carries the logger and CSV writing shared by parsers. Embed it:
//
//	type MyParser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser returns a BaseParser logging to logger, or to an info-level
// text logger when logger is nil.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{logger: logger}
}

// SetLogger implements LoggerConfigurable. A nil logger is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// WriteToCSV writes rows to csvFile in the import format.
func (b *BaseParser) WriteToCSV(rows []models.BudgetRow, csvFile string) error {
	b.logger.Debug("Writing budget rows to CSV",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return common.WriteCSVFile(csvFile, rows, b.logger)
}

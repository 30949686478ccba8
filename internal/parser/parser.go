package parser

import (
	"io"

	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/models"
)

// Parser reads an export and returns its completed transactions.
type Parser interface {
	// Parse reads the export from r. Implementations return parsererror types
	// for malformed headers and unparsable fields.
	Parse(r io.Reader) ([]models.Transaction, error)
}

// Validator checks whether a file looks like an export this parser handles.
type Validator interface {
	ValidateFormat(filePath string) (bool, error)
}

// LoggerConfigurable is implemented by components whose logger can be swapped.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser combines every parser capability.
type FullParser interface {
	Parser
	Validator
	LoggerConfigurable
}

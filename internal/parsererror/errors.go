// Package parsererror defines the typed errors raised while converting
// brokerage exports. Callers inspect them with errors.As.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// IOError reports a file that could not be opened, read or written.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MalformedInputError reports an input that is not a usable CSV export:
// either its header lacks required columns or the CSV itself is broken.
type MalformedInputError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *MalformedInputError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("malformed input '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed input '%s': missing required columns: %s",
		e.Path, strings.Join(e.Missing, ", "))
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// DateParseError reports a timestamp that does not match the expected layout.
// Row is the 1-based data row number, header excluded.
type DateParseError struct {
	Row    int
	Value  string
	Layout string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse date '%s' with layout '%s': %v",
		e.Row, e.Value, e.Layout, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// CurrencyParseError reports a monetary field that is not a number once its
// currency symbol has been removed.
type CurrencyParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *CurrencyParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *CurrencyParseError) Unwrap() error {
	return e.Err
}

// WithPath attaches the file path to err when it does not already mention it.
func WithPath(path string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	var malformed *MalformedInputError
	if errors.As(err, &ioErr) || errors.As(err, &malformed) {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

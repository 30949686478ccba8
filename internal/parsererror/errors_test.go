package parsererror

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "io error",
			err:      &IOError{Path: "missing.csv", Op: "open", Err: fs.ErrNotExist},
			expected: "open missing.csv: file does not exist",
		},
		{
			name:     "malformed input",
			err:      &MalformedInputError{Path: "in.csv", Missing: []string{"Amount", "Ending Balance"}},
			expected: "malformed input 'in.csv': missing required columns: Amount, Ending Balance",
		},
		{
			name:     "malformed csv",
			err:      &MalformedInputError{Path: "in.csv", Err: errors.New("bare quote")},
			expected: "malformed input 'in.csv': bare quote",
		},
		{
			name: "date parse",
			err: &DateParseError{
				Row:    2,
				Value:  "03/01/2023",
				Layout: "2006-01-02 15:04:05.000000",
				Err:    errors.New("bad"),
			},
			expected: "row 2: failed to parse date '03/01/2023' with layout '2006-01-02 15:04:05.000000': bad",
		},
		{
			name:     "currency parse",
			err:      &CurrencyParseError{Row: 1, Field: "Amount", Value: "N/A", Err: errors.New("not a number")},
			expected: "row 1: failed to parse Amount='N/A': not a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")

	assert.ErrorIs(t, &IOError{Err: cause}, cause)
	assert.ErrorIs(t, &DateParseError{Err: cause}, cause)
	assert.ErrorIs(t, &CurrencyParseError{Err: cause}, cause)
}

func TestWithPath(t *testing.T) {
	assert.NoError(t, WithPath("a.csv", nil))

	ioErr := &IOError{Path: "a.csv", Op: "open", Err: fs.ErrNotExist}
	assert.Same(t, ioErr, WithPath("a.csv", ioErr))

	wrapped := WithPath("a.csv", &CurrencyParseError{Row: 1, Field: "Amount", Value: "x", Err: errors.New("nope")})
	assert.Contains(t, wrapped.Error(), "a.csv: row 1")

	var cpe *CurrencyParseError
	require.True(t, errors.As(wrapped, &cpe))
	assert.Equal(t, "Amount", cpe.Field)

	nested := fmt.Errorf("outer: %w", &MalformedInputError{Path: "a.csv", Missing: []string{"Amount"}})
	assert.Equal(t, nested, WithPath("a.csv", nested))
}

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(amount string) Transaction {
	return Transaction{
		Completed:     time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC),
		Description:   "Coffee Shop",
		Amount:        decimal.RequireFromString(amount),
		EndingBalance: decimal.RequireFromString("120.00"),
	}
}

func TestTransaction_InflowOutflow(t *testing.T) {
	tests := []struct {
		amount  string
		outflow string
		inflow  string
	}{
		{"-4.50", "4.50", "0"},
		{"250.00", "0", "250.00"},
		{"0.00", "0", "0"},
		{"-0.01", "0.01", "0"},
		{"1000", "0", "1000"},
	}

	for _, tc := range tests {
		t.Run(tc.amount, func(t *testing.T) {
			row := NewBudgetRow(tx(tc.amount))
			assert.Equal(t, tc.outflow, row.Outflow.String())
			assert.Equal(t, tc.inflow, row.Inflow.String())

			// at most one side is nonzero and it carries |amount|
			assert.False(t, !row.Outflow.IsZero() && !row.Inflow.IsZero())
			abs := decimal.RequireFromString(tc.amount).Abs()
			assert.True(t, abs.Equal(row.Outflow.Add(row.Inflow.Decimal)))
		})
	}
}

func TestBudgetRow_Record(t *testing.T) {
	row := NewBudgetRow(tx("-4.50"))
	assert.Equal(t, []string{"03/01/2023", "Coffee Shop", "", "", "4.50", "0"}, row.Record())
	assert.Len(t, BudgetHeader, len(row.Record()))
}

func TestMarshalCSV(t *testing.T) {
	s, err := Amount{Decimal: decimal.RequireFromString("12.3400")}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "12.3400", s)

	s, err = USDate{Time: time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "12/09/2024", s)
}

func TestParseCutoff(t *testing.T) {
	for _, s := range []string{"", "earliest", "EARLIEST", "  earliest "} {
		c, err := ParseCutoff(s)
		require.NoError(t, err)
		assert.True(t, c.IsEarliest(), s)
		assert.Equal(t, "earliest", c.String())
	}

	c, err := ParseCutoff("2023-01-15")
	require.NoError(t, err)
	assert.False(t, c.IsEarliest())
	midnight := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, c.Admits(midnight))
	assert.True(t, c.Admits(midnight.Add(time.Microsecond)))
	assert.Equal(t, "2023-01-15", c.String())

	c, err = ParseCutoff("2023-01-15 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15 12:30:00", c.String())

	_, err = ParseCutoff("last week")
	assert.Error(t, err)
}

func TestCutoff_AdmitsIsStrict(t *testing.T) {
	c, err := ParseCutoff("2023-01-15")
	require.NoError(t, err)

	assert.False(t, c.Admits(time.Date(2023, 1, 14, 23, 59, 59, 0, time.UTC)))
	assert.False(t, c.Admits(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.Admits(time.Date(2023, 1, 15, 0, 0, 0, 1000, time.UTC)))
	assert.True(t, c.Admits(time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC)))

	assert.True(t, Earliest().Admits(time.Time{}))
}

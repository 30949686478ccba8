package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRow is one raw row of a brokerage transaction export. Only the
// columns the conversion needs are mapped; others are ignored.
type ExportRow struct {
	DateCompleted          string `csv:"Date Completed"`
	TransactionDescription string `csv:"Transaction Description"`
	Amount                 string `csv:"Amount"`
	EndingBalance          string `csv:"Ending Balance"`
}

// Required export columns.
const (
	ColumnDateCompleted = "Date Completed"
	ColumnDescription   = "Transaction Description"
	ColumnAmount        = "Amount"
	ColumnEndingBalance = "Ending Balance"
)

// RequiredColumns lists the header names an export must carry.
var RequiredColumns = []string{
	ColumnDateCompleted,
	ColumnDescription,
	ColumnAmount,
	ColumnEndingBalance,
}

// Transaction is a completed export row with its fields parsed.
type Transaction struct {
	Completed     time.Time
	Description   string
	Amount        decimal.Decimal
	EndingBalance decimal.Decimal
}

// Outflow is the money leaving the account: -Amount when negative, else zero.
func (t Transaction) Outflow() decimal.Decimal {
	if t.Amount.IsNegative() {
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// Inflow is the money entering the account: Amount when positive, else zero.
func (t Transaction) Inflow() decimal.Decimal {
	if t.Amount.IsPositive() {
		return t.Amount
	}
	return decimal.Zero
}

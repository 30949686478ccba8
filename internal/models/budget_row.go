package models

import (
	"time"

	"fjacquet/betterment-ynab/internal/dateutils"

	"github.com/shopspring/decimal"
)

// BudgetHeader is the header line of a budgeting import file.
var BudgetHeader = []string{"Date", "Payee", "Category", "Memo", "Outflow", "Inflow"}

// BudgetRow is one line of the budgeting import file. Field order is the
// column order.
type BudgetRow struct {
	Date     USDate `csv:"Date"`
	Payee    string `csv:"Payee"`
	Category string `csv:"Category"`
	Memo     string `csv:"Memo"`
	Outflow  Amount `csv:"Outflow"`
	Inflow   Amount `csv:"Inflow"`
}

// NewBudgetRow projects a transaction onto the import format. Category and
// Memo are left empty.
func NewBudgetRow(tx Transaction) BudgetRow {
	return BudgetRow{
		Date:    USDate{Time: tx.Completed},
		Payee:   tx.Description,
		Outflow: Amount{Decimal: tx.Outflow()},
		Inflow:  Amount{Decimal: tx.Inflow()},
	}
}

// Record returns the row as CSV fields in header order.
func (r BudgetRow) Record() []string {
	return []string{
		r.Date.String(),
		r.Payee,
		r.Category,
		r.Memo,
		r.Outflow.String(),
		r.Inflow.String(),
	}
}

// Amount is a non-negative monetary value written without currency symbol.
type Amount struct {
	decimal.Decimal
}

// String renders zero as "0" and any other value with the scale it was parsed
// with, so "$-4.50" becomes "4.50".
func (a Amount) String() string {
	if a.IsZero() {
		return "0"
	}
	if exp := a.Exponent(); exp < 0 {
		return a.StringFixed(-exp)
	}
	return a.Decimal.String()
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Amount) MarshalCSV() (string, error) {
	return a.String(), nil
}

// USDate is a calendar date written as MM/DD/YYYY.
type USDate struct {
	time.Time
}

func (d USDate) String() string {
	return dateutils.FormatUS(d.Time)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d USDate) MarshalCSV() (string, error) {
	return d.String(), nil
}

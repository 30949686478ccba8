// Package models defines the records flowing through a conversion: the
// Transaction parsed from a brokerage export and the BudgetRow written to the
// budgeting import file.
package models

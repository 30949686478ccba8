package transformer

import (
	"fjacquet/betterment-ynab/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable draws rows as a plain bordered table for verbose output.
func RenderTable(rows []models.BudgetRow) string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(models.BudgetHeader...).
		Rows(records...).
		String()
}

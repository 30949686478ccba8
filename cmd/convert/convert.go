// Package convert handles the conversion of transaction exports
package convert

import (
	"fjacquet/betterment-ynab/cmd/common"
	"fjacquet/betterment-ynab/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert Betterment CSV exports to YNAB CSV",
	Long: `Convert Betterment transaction exports to the YNAB import format.

Each file is written next to its input with the configured suffix
(default "_YNAB.csv"). Payees listed in the ignore file are skipped, and only
transactions completed after --dateafter are kept.

Example:
  betterment-ynab convert --dateafter 2023-01-15 transactions.csv`,
	RunE: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) error {
	return common.ConvertFiles(root.AppContainer, args, root.SharedFlags.DateAfter, root.SharedFlags.Verbose)
}

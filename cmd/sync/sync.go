// Package sync downloads and converts in one step
package sync

import (
	"fjacquet/betterment-ynab/cmd/common"
	"fjacquet/betterment-ynab/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Download Betterment transactions and convert them",
	Long: `Download every configured account and convert the downloaded files.
All downloaded transactions are kept unless --dateafter is given.`,
	Args: cobra.NoArgs,
	RunE: syncFunc,
}

func syncFunc(cmd *cobra.Command, args []string) error {
	return common.Sync(cmd.Context(), root.AppContainer, root.SharedFlags.Days, root.SharedFlags.DateAfter,
		root.SharedFlags.Verbose, cmd.InOrStdin(), cmd.ErrOrStderr(), root.ProgressWriter(cmd))
}

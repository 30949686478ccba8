// Package download handles downloading transaction exports from the portal
package download

import (
	"fjacquet/betterment-ynab/cmd/common"
	"fjacquet/betterment-ynab/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the download command
var Cmd = &cobra.Command{
	Use:   "download",
	Short: "Download Betterment transaction exports",
	Long: `Log into the Betterment portal and download one transaction export per
account listed under download.accounts, saved as transactions_<account>.csv.

The password is read from BYNAB_PASSWORD, then the OS keyring, then asked for.`,
	Args: cobra.NoArgs,
	RunE: downloadFunc,
}

func downloadFunc(cmd *cobra.Command, args []string) error {
	_, err := common.Download(cmd.Context(), root.AppContainer, root.SharedFlags.Days,
		cmd.InOrStdin(), cmd.ErrOrStderr(), root.ProgressWriter(cmd))
	return err
}

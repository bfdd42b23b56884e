package cmd

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Refresh every account once and log a summary",
	PreRunE: initializeApp,
	RunE:    runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&accountName, "account", "a", "", "limit to a single configured account")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	for _, acc := range accounts {
		refreshAccount(ctx, acc)
	}
	return nil
}

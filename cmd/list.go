package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/larsmn/bibtrack/filter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loans, reservations and fees per account",
	Long: `List refreshes every configured account and prints its loans,
queued reservations, ready-for-pickup reservations and outstanding fees.

An expr expression can narrow the rows, for example:

  bibtrack list --filter 'Kind == "loan" && HasDueDate && daysUntil(DueDate) < 3'
  bibtrack list --filter 'Kind == "ready"'`,
	PreRunE: initializeApp,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "expr expression applied to every row")
	listCmd.Flags().StringVarP(&accountName, "account", "a", "", "limit to a single configured account")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	var match filter.Filter
	if filterExpr != "" {
		var err error
		match, err = filter.Compile(filterExpr)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	for _, acc := range accounts {
		acc.client.Update(ctx)
		printAccount(acc, match)
	}
	return nil
}

func printAccount(acc account, match filter.Filter) {
	user := acc.client.User()

	fmt.Printf("== %s ==\n", acc.client.DisplayName())
	if user.Name != "" {
		fmt.Printf("   %s", user.Name)
		if user.PickupBranch != "" {
			fmt.Printf(" (pickup: %s)", user.PickupBranch)
		}
		fmt.Println()
	}

	fmt.Printf("\nLoans (%d):\n", len(user.Loans))
	for _, l := range user.Loans {
		if match != nil && !match(filter.FromLoan(l)) {
			continue
		}
		renew := " "
		if l.Renewable {
			renew = "R"
		}
		fmt.Printf("  [%s] %-10s  %s%s\n", renew, fmtDate(l.DueDate), l.Title, byline(l.Creators))
	}

	fmt.Printf("\nReady for pickup (%d):\n", len(user.ReservationsReady))
	for _, r := range user.ReservationsReady {
		if match != nil && !match(filter.FromReady(r)) {
			continue
		}
		fmt.Printf("  until %-10s  %s%s", fmtDate(r.PickupDeadline), r.Title, byline(r.Creators))
		if r.PickupNumber != "" {
			fmt.Printf("  (shelf %s, %s)", r.PickupNumber, r.PickupBranch)
		}
		fmt.Println()
	}

	fmt.Printf("\nReservations (%d):\n", len(user.Reservations))
	for _, r := range user.Reservations {
		if match != nil && !match(filter.FromReservation(r)) {
			continue
		}
		queue := "  -"
		if r.QueuePosition != nil {
			queue = fmt.Sprintf("#%d", *r.QueuePosition)
		}
		fmt.Printf("  %4s  %s%s  (%s)\n", queue, r.Title, byline(r.Creators), r.PickupBranch)
	}

	if len(user.Debts) > 0 {
		fmt.Printf("\nFees (%.2f kr):\n", user.DebtsAmount)
		for _, d := range user.Debts {
			fmt.Printf("  %8.2f kr  %-10s  %s\n", d.Amount, fmtDate(d.FeeDate), d.Title)
		}
	}
	fmt.Println()
}

// byline renders creators as a suffix, or nothing when unknown.
func byline(creators string) string {
	if creators == "" {
		return ""
	}
	return " / " + creators
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

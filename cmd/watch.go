package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh all accounts on an interval until interrupted",
	Long: `Watch refreshes every configured account on the interval from
watch.interval, logging a summary per cycle. Accounts are refreshed
concurrently; stop with Ctrl-C.`,
	PreRunE: initializeApp,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Dur("interval", cfg.Watch.Interval).
		Int("accounts", len(accounts)).
		Msg("Starting watch")

	ticker := time.NewTicker(cfg.Watch.Interval)
	defer ticker.Stop()

	refreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			return nil
		case <-ticker.C:
			refreshAll(ctx)
		}
	}
}

// refreshAll runs one cycle, one goroutine per account.
func refreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, acc := range accounts {
		acc := acc
		g.Go(func() error {
			refreshAccount(gctx, acc)
			return nil
		})
	}
	_ = g.Wait()
}

// refreshAccount updates one account and logs what it found.
func refreshAccount(ctx context.Context, acc account) {
	start := time.Now()
	acc.client.Update(ctx)
	user := acc.client.User()

	event := logger.Info().
		Str("account", acc.name).
		Int("loans", len(user.Loans)).
		Int("reservations", len(user.Reservations)).
		Int("ready", len(user.ReservationsReady)).
		Dur("elapsed", time.Since(start))
	if user.DebtsAmount > 0 {
		event = event.Float64("debt", user.DebtsAmount)
	}
	event.Msg("Account refreshed")

	if !acc.client.Session().LoggedIn && user.Name == "" {
		logger.Warn().Str("account", acc.name).Msg("Login failed, data may be stale")
	}
}

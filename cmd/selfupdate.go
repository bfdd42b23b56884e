package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const githubSlug = "larsmn/bibtrack"

var updateYes bool

// selfupdateCmd replaces the running binary with the latest release. It
// needs no config file.
var selfupdateCmd = &cobra.Command{
	Use:   "selfupdate",
	Short: "Update bibtrack to the latest release",
	RunE:  runSelfupdate,
}

func init() {
	selfupdateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(selfupdateCmd)
}

func runSelfupdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("current version %q is not a release build, cannot update", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubSlug))
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found || latest.LessOrEqual(version) {
		fmt.Printf("Current version %s is up to date\n", version)
		return nil
	}

	fmt.Printf("New version available: %s (current: %s)\n", latest.Version(), version)

	// Only prompt when attached to a terminal
	if !updateYes && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Print("Update now? [y/N]: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return scanner.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			fmt.Println("Update cancelled")
			return nil
		}
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to %s\n", latest.Version())
	return nil
}

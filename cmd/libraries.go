package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/larsmn/bibtrack/discovery"
)

var (
	showExcluded bool
	lookupLon    float64
	lookupLat    float64
)

// librariesCmd works without a config file so it can be used to write one.
var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the member libraries and their host and agency values",
	Long: `Libraries prints the national directory of member library portals
with the host and agency values the config file needs. With --lon and
--lat it also resolves which municipality the coordinates fall in, to
help pick the right library.`,
	RunE: runLibraries,
}

func init() {
	librariesCmd.Flags().BoolVar(&showExcluded, "excluded", false, "also list portals behind the legacy gateway")
	librariesCmd.Flags().Float64Var(&lookupLon, "lon", 0, "longitude for municipality lookup")
	librariesCmd.Flags().Float64Var(&lookupLat, "lat", 0, "latitude for municipality lookup")
	rootCmd.AddCommand(librariesCmd)
}

func runLibraries(cmd *cobra.Command, args []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	client := discovery.NewClient("", "", log)
	ctx := cmd.Context()

	if lookupLon != 0 || lookupLat != 0 {
		name, err := client.Municipality(ctx, lookupLon, lookupLat)
		if err != nil {
			return fmt.Errorf("municipality lookup: %w", err)
		}
		fmt.Printf("Municipality: %s\n\n", name)
	}

	dir, err := client.Libraries(ctx)
	if err != nil {
		return fmt.Errorf("fetching library directory: %w", err)
	}

	fmt.Printf("Supported (%d):\n", len(dir.Supported))
	for _, lib := range dir.Supported {
		fmt.Printf("  %-40s  host: %-45s  agency: %s\n", lib.Name, lib.Host, lib.Agency)
	}

	if showExcluded {
		fmt.Printf("\nUnsupported legacy portals (%d):\n", len(dir.Excluded))
		for _, lib := range dir.Excluded {
			fmt.Printf("  %-40s  agency: %s\n", lib.Name, lib.Agency)
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/larsmn/bibtrack/config"
	"github.com/larsmn/bibtrack/library"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr  string
	accountName string
)

// account pairs a configured account with its client.
type account struct {
	name   string
	client *library.Client
}

var accounts []account

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bibtrack",
	Short: "Track loans, reservations and fees across Danish library accounts",
	Long: `bibtrack logs into your public library's portal and the national
lending platforms, and shows every loan, reservation, ready-for-pickup
reservation and outstanding fee for each configured account.`,
}

// SetVersion records the build metadata main passes in.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the per-account clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	endpoints := library.Endpoints{
		Site:        cfg.Endpoints.Site,
		Circulation: cfg.Endpoints.Circulation,
		Hub:         cfg.Endpoints.Hub,
		Graph:       cfg.Endpoints.Graph,
		Details:     cfg.Endpoints.Details,
		Covers:      cfg.Endpoints.Covers,
	}

	accounts = accounts[:0]
	for _, acc := range cfg.Accounts {
		if accountName != "" && acc.Name != accountName {
			continue
		}
		opts := []library.Option{
			library.WithLogger(logger.With().Str("account", acc.Name).Logger()),
			library.WithDisplayName(acc.Name),
			library.WithEndpoints(endpoints),
		}
		if acc.National {
			opts = append(opts, library.WithNationalMode())
		}
		accounts = append(accounts, account{
			name:   acc.Name,
			client: library.NewClient(acc.UserID, acc.Pincode, acc.Host, acc.Agency, opts...),
		})
	}
	if len(accounts) == 0 {
		return fmt.Errorf("no account matches %q", accountName)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/config"
	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/session"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   *zerolog.Logger
	sessions *session.Manager
	client   *api.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "receipt-service",
	Short: "Receipt Service CLI - personal expense tracking client",
	Long: `A CLI client for the receipt-tracking backend. Upload fiscal receipts,
browse spending history, and view per-month, per-product, and per-store
analytics assembled from the backend's aggregate endpoints.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	sessionPath := ""
	if cfg != nil {
		sessionPath = cfg.Session.Path
	}
	if sessionPath == "" {
		var err error
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve session path: %w", err)
		}
	}
	sessions = session.NewManager(sessionPath, *logger)

	baseURL := "http://localhost:8000"
	timeout := 30 * time.Second
	retry := api.DefaultRetryConfig()
	rps := 0.0
	if cfg != nil {
		if cfg.API.BaseURL != "" {
			baseURL = cfg.API.BaseURL
		}
		if cfg.API.Timeout > 0 {
			timeout = cfg.API.Timeout
		}
		retry = api.RetryConfig{
			MaxRetries:       cfg.RateLimit.MaxRetries,
			InitialBackoffMs: cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:     cfg.RateLimit.MaxBackoffMs,
		}
		rps = float64(cfg.RateLimit.RequestsPerSecond)
	}

	client = api.New(api.Options{
		BaseURL:           baseURL,
		Tokens:            sessions,
		Timeout:           timeout,
		Retry:             retry,
		RequestsPerSecond: rps,
		Logger:            *logger,
		OnUnauthorized: func() {
			fmt.Fprintln(os.Stderr, "Session expired, run 'receipt-service login' again")
		},
	})

	return nil
}

// requireSession fails commands that need an authenticated backend call.
func requireSession() error {
	if sessions.Current() == nil {
		return fmt.Errorf("not logged in, run 'receipt-service login' first")
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	noColor := false
	if cfg != nil {
		noColor = cfg.Logging.NoColor
	}
	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/showlist-watch/internal/config"
	"github.com/pfrederiksen/showlist-watch/internal/filter"
	"github.com/pfrederiksen/showlist-watch/internal/logger"
	"github.com/pfrederiksen/showlist-watch/internal/notifier"
	"github.com/pfrederiksen/showlist-watch/internal/pipeline"
	"github.com/pfrederiksen/showlist-watch/internal/scraper"
	"github.com/pfrederiksen/showlist-watch/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitConfigError = 2
)

// Version is set at build time
var Version = "dev"

var (
	flagConfig    string
	flagEnvFile   string
	flagStateFile string
	flagURL       string
	flagFormat    string
	flagDryRun    bool
	flagRefresh   bool
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "showlist-watch",
		Short: "Email newly listed shows from a local show listing",
		Long: `A CLI tool that watches a show listing page for newly listed shows.
Each run compares the listing with the shows already seen, emails the new
ones, and only then records them as seen.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagEnvFile == "" {
				return nil
			}
			if err := godotenv.Load(flagEnvFile); err != nil {
				return &config.Error{Invalid: []string{"--env-file " + flagEnvFile}}
			}
			return nil
		},
		RunE: runCheck,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default ~/.config/showlist-watch/config.toml)")
	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from this file")
	cmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "", "Path to the known shows file")
	cmd.PersistentFlags().StringVar(&flagURL, "url", "", "Listing page URL")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the email instead of sending it and do not save state")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Save the current listing as seen without sending email")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "refresh")

	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// loadConfig builds the run configuration and applies flag overrides
func loadConfig() (*config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(flagFormat)))
	if format != FormatText && format != FormatJSON {
		return nil, "", &config.Error{Invalid: []string{"--format " + flagFormat}}
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, "", err
	}

	if flagStateFile != "" {
		path, err := config.ExpandPath(flagStateFile)
		if err != nil {
			return nil, "", &config.Error{Invalid: []string{"--state-file " + flagStateFile}}
		}
		cfg.State.Path = path
	}
	if flagURL != "" {
		cfg.Source.URL = flagURL
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}

	return cfg, format, nil
}

// newLogger creates the run logger, tagged with a fresh run id
func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	level := logger.ParseLevel(cfg.Logging.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.NewWithFormat(level, logger.Format(cfg.Logging.Format), w)
	return log.With(logger.Fields{"run_id": uuid.NewString()})
}

func modeFromFlags() pipeline.Mode {
	switch {
	case flagDryRun:
		return pipeline.ModeDryRun
	case flagRefresh:
		return pipeline.ModeRefresh
	default:
		return pipeline.ModeNotify
	}
}

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, format, err := loadConfig()
	if err != nil {
		return err
	}

	mode := modeFromFlags()

	// Delivery settings are only needed when an email will actually go out
	if mode == pipeline.ModeNotify {
		if err := cfg.ValidateDelivery(); err != nil {
			return err
		}
	}

	log := newLogger(cfg, cmd.ErrOrStderr())
	logger.SetDefault(log)

	src := scraper.New(cfg.Source.URL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	log.Debug("Starting check", logger.Fields{
		"mode":       mode.String(),
		"url":        src.URL(),
		"state_file": cfg.State.Path,
	})

	store, err := storage.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	if err := store.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := store.Unlock(); err != nil {
			log.Warn("Failed to release state lock", logger.Fields{"error": err.Error()})
		}
	}()

	var n notifier.Notifier
	switch mode {
	case pipeline.ModeNotify:
		n, err = notifier.NewMailgunNotifier(cfg.Delivery)
		if err != nil {
			return err
		}
	case pipeline.ModeDryRun:
		// Keep stdout clean for JSON results
		w := cmd.OutOrStdout()
		if format == FormatJSON {
			w = cmd.ErrOrStderr()
		}
		n = notifier.NewDryRunNotifier(w, cfg.Delivery.ToAddresses)
	}

	metrics := logger.NewMetrics()
	runner := &pipeline.Runner{
		Source:   src,
		Store:    store,
		Notifier: n,
		Filter:   filter.New(cfg.Filter.ExcludedVenues),
		Mode:     mode,
		Logger:   log,
		Metrics:  metrics,
	}
	log.Debug("Venue filter", logger.Fields{"filter": runner.Filter.String()})

	result, err := runner.Run(cmd.Context())
	log.Info("Check finished", metrics.Fields())
	if err != nil {
		return err
	}

	if err := WriteOutput(cmd.OutOrStdout(), NewOutputResult(result, mode), format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	return ExitError
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

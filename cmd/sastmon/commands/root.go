package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/config"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/output"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/output/subscribers"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/storage"
)

const cliExecutable = "sastmon"

var (
	configFile      string
	storageDir      string
	storageDisabled bool
	noColor         bool
	verbosityCount  int
	verbose         bool

	// cfgManager is populated in PersistentPreRunE, before any subcommand
	// runs.
	cfgManager *config.Manager
)

// NewCommand constructs the top-level sastmon CLI command, wiring global
// flags, configuration loading, and logging setup.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Measure the energy consumption of static-analysis scanner runs",
		Long: `Sastmon runs Bandit or Semgrep scans with predefined configurations,
wraps each scan with the EnergiBridge measurement executable, and reports
per-run energy consumption alongside the scanner's own output.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfgManager = mgr

			configureLogging(mgr.Get().Log)
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "Override run-history root directory")
	cmd.PersistentFlags().BoolVar(&storageDisabled, "no-storage", false, "Disable run-history archival for this run")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (shows service layer logs)")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewMeasureCommand())
	cmd.AddCommand(NewToolsCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the CLI. Any error already rendered by the failing command
// maps to exit code 1.
func Execute() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging sets up the global zerolog logger.
//
// Level selection: explicit --verbose forces debug; otherwise the -v count
// decides (0=>Error, 1=>Info, 2+=>Debug) so the default run stays quiet on
// stderr while human output owns stdout.
func configureLogging(cfg config.LogConfig) {
	var w io.Writer = os.Stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			w = f
		}
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	switch {
	case verbosityCount <= 0:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbosityCount == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// setupOutputPipeline builds the output event stream for a command: a JSON
// lines formatter when --output json is active, a human formatter otherwise,
// plus a diagnostics subscriber gated by -v.
func setupOutputPipeline(cmd *cobra.Command) output.Output {
	stream := output.NewOutputEventStream()

	format, _ := cmd.Flags().GetString("output")
	if strings.EqualFold(format, "json") {
		stream.Subscribe(subscribers.NewJSONFormatter(os.Stdout))
	} else {
		colorEnabled := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
		stream.Subscribe(subscribers.NewHumanFormatter(os.Stdout, os.Stderr, colorEnabled))
	}

	if verbosityCount > 0 {
		level := output.LevelVerbose
		if verbosityCount > 1 {
			level = output.LevelDebug
		}
		stream.Subscribe(subscribers.NewDiagnosticSubscriber(os.Stderr, level))
	}

	return output.NewDefaultOutput(stream)
}

// openStore opens the run-history store honoring --no-storage and
// --storage-dir. A nil store with nil error means archival is disabled.
func openStore(cmd *cobra.Command) (storage.Store, error) {
	if storageDisabled {
		log.Info().Msg("run-history archival disabled for this run")
		return nil, nil
	}

	storageConfig, err := storage.DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("get storage config: %w", err)
	}
	if root := cfgManager.Get().Storage.WorkspaceRoot; root != "" {
		storageConfig.WorkspaceRoot = root
	}
	if storageDir != "" {
		storageConfig.WorkspaceRoot = storageDir
	}

	store, err := storage.NewLocalStore(storageConfig)
	if err != nil {
		return nil, fmt.Errorf("create run-history store: %w", err)
	}
	if err := store.Initialize(cmd.Context()); err != nil {
		return nil, fmt.Errorf("initialize run-history store: %w", err)
	}

	log.Info().Str("storage_root", storageConfig.WorkspaceRoot).Msg("run-history store ready")
	return store, nil
}

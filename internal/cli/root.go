package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/shocktest/internal/config"
	"github.com/roach88/shocktest/internal/logging"
	"github.com/roach88/shocktest/pkg/shocktest"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Color      string // "auto" | "always" | "never"
	ConfigPath string

	// Config is the resolved configuration, set before any subcommand runs.
	Config *config.Config

	// Registry is the case registry `run` executes.
	Registry *shocktest.Registry

	// Now stamps history records. Tests replace it with a step clock.
	Now func() time.Time

	// IDs overrides the history run ID generator (for testing).
	IDs func() string
}

// NewRootCommand creates the root command for the shocktest CLI.
// reg is the registry executed by `shocktest run`.
func NewRootCommand(reg *shocktest.Registry) *cobra.Command {
	return newRootCommand(&RootOptions{Registry: reg, Now: time.Now})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shocktest",
		Short: "shocktest - embeddable test harness",
		Long: `shocktest runs registered test cases in order, classifies each outcome
against its weather (GOODWEATHER expects completion, BADWEATHER expects a
failure signal) and exits with the number of failed cases.`,
		Version: shocktest.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colorize the console report (auto|always|never)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .cue)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSelfcheckCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve layers explicitly set flags over the loaded configuration and
// initializes logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return o.formatter(cmd).Fail(ErrCodeConfig, ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("color") {
		cfg.Color = o.Color
	}
	if err := cfg.Validate(); err != nil {
		return o.formatter(cmd).Fail(ErrCodeConfig, ExitCommandError, "invalid options", err)
	}
	o.Format = cfg.Format
	o.Color = cfg.Color

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return o.formatter(cmd).Fail(ErrCodeConfig, ExitCommandError, "invalid log level", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr())

	o.Config = cfg
	slog.Debug("configuration resolved",
		slog.String("format", cfg.Format),
		slog.String("color", cfg.Color),
		slog.String("history_db", cfg.HistoryDB))
	return nil
}

// runnerOptions translates the color mode into runner options.
func (o *RootOptions) runnerOptions() []shocktest.RunnerOption {
	switch o.Color {
	case "always":
		return []shocktest.RunnerOption{shocktest.WithColor(true)}
	case "never":
		return []shocktest.RunnerOption{shocktest.WithColor(false)}
	default:
		return nil
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/shocktest/internal/history"
	"github.com/roach88/shocktest/internal/logging"
	"github.com/roach88/shocktest/pkg/shocktest"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	History string
}

// RunResult is the JSON payload of `shocktest run`.
type RunResult struct {
	Total     int                    `json:"total"`
	Passed    int                    `json:"passed"`
	Failed    int                    `json:"failed"`
	ElapsedMS int64                  `json:"elapsed_ms"`
	Cases     []shocktest.CaseResult `json:"cases"`
	RunID     string                 `json:"run_id,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered test cases",
		Long: `Run every registered test case in registration order and print the report.

With --format json the console report is replaced by a JSON summary.
With --history (or history_db in the config) the report is also recorded
in a SQLite database.

Exit codes:
  0     - All cases passed
  1-255 - Number of failed cases, capped at 255
  2     - Command error (bad config, history database)

Examples:
  shocktest run
  shocktest run --color never
  shocktest run --history ./shocktest.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "record the report in this SQLite database")

	return cmd
}

func runCases(opts *RunOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := logging.New("run")

	// The console report is the text output; JSON replaces it entirely.
	var console io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		console = io.Discard
	}

	runnerOpts := append([]shocktest.RunnerOption{
		shocktest.WithOutput(console),
		shocktest.WithLogger(logging.New("runner")),
	}, opts.runnerOptions()...)

	startedAt := opts.Now()
	report := shocktest.NewRunner(opts.Registry, runnerOpts...).Run()

	result := RunResult{
		Total:     report.Total,
		Passed:    report.Passed(),
		Failed:    report.Failed,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Cases:     report.Cases,
	}

	if db := opts.historyPath(); db != "" {
		id, err := recordRun(opts, cmd, db, report, startedAt)
		if err != nil {
			return err
		}
		result.RunID = id
		logger.Debug("report recorded", slog.String("run_id", id), slog.String("db", db))
	}

	if opts.Format == "json" {
		if err := out.Success(result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if report.Failed > 0 {
		return NewExitError(shocktest.ExitCode(report.Failed), fmt.Sprintf("%d test(s) failed", report.Failed))
	}
	return nil
}

func (o *RunOptions) historyPath() string {
	if o.History != "" {
		return o.History
	}
	return o.Config.HistoryDB
}

func recordRun(opts *RunOptions, cmd *cobra.Command, db string, report *shocktest.Report, startedAt time.Time) (string, error) {
	out := opts.formatter(cmd)

	var storeOpts []history.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, history.WithIDGenerator(opts.IDs))
	}
	st, err := history.Open(db, storeOpts...)
	if err != nil {
		return "", out.Fail(ErrCodeHistoryOpen, ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	run, err := st.Record(cmd.Context(), report, startedAt)
	if err != nil {
		return "", out.Fail(ErrCodeHistoryWrite, ExitCommandError, "failed to record report", err)
	}
	return run.ID, nil
}

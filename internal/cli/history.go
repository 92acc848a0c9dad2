package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/shocktest/internal/history"
	"github.com/roach88/shocktest/pkg/shocktest"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// HistoryRunsResult is the JSON payload of `shocktest history`.
// Runs is always an array, empty when nothing is recorded.
type HistoryRunsResult struct {
	Runs []history.Run `json:"runs"`
}

// HistoryCasesResult is the JSON payload of `shocktest history --run`.
type HistoryCasesResult struct {
	RunID string                 `json:"run_id"`
	Cases []shocktest.CaseResult `json:"cases"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded by 'shocktest run --history', newest first.

With --run, print the case results of one run instead.

Examples:
  shocktest history --db ./shocktest.db
  shocktest history --db ./shocktest.db --limit 5 --format json
  shocktest history --db ./shocktest.db --run 0192f4c1-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the history database (defaults to history_db from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the case results of this run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	db := opts.Database
	if db == "" {
		db = opts.Config.HistoryDB
	}
	if db == "" {
		return out.Fail(ErrCodeHistoryOpen, ExitCommandError, "no history database: pass --db or set history_db", nil)
	}

	st, err := history.Open(db)
	if err != nil {
		return out.Fail(ErrCodeHistoryOpen, ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		cases, err := st.Cases(cmd.Context(), opts.RunID)
		if errors.Is(err, history.ErrRunNotFound) {
			return out.Fail(ErrCodeRunNotFound, ExitCommandError, fmt.Sprintf("run %s not found", opts.RunID), nil)
		}
		if err != nil {
			return out.Fail(ErrCodeHistoryRead, ExitCommandError, "failed to read run", err)
		}
		if opts.Format == "json" {
			if cases == nil {
				cases = []shocktest.CaseResult{}
			}
			return out.Success(HistoryCasesResult{RunID: opts.RunID, Cases: cases})
		}
		return out.Success(formatCases(cases))
	}

	runs, err := st.List(cmd.Context(), opts.Limit)
	if err != nil {
		return out.Fail(ErrCodeHistoryRead, ExitCommandError, "failed to list runs", err)
	}
	if opts.Format == "json" {
		if runs == nil {
			runs = []history.Run{}
		}
		return out.Success(HistoryRunsResult{Runs: runs})
	}
	if len(runs) == 0 {
		return out.Success("No runs recorded.")
	}
	return out.Success(formatRuns(runs))
}

func formatRuns(runs []history.Run) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tTOTAL\tFAILED\tELAPSED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d ms\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Total, r.Failed, r.ElapsedMS)
	}
	tw.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

func formatCases(cases []shocktest.CaseResult) string {
	if len(cases) == 0 {
		return "Run has no cases."
	}
	var b strings.Builder
	for _, c := range cases {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		weather := "GOODWEATHER"
		if c.ExpectFail {
			weather = "BADWEATHER"
		}
		fmt.Fprintf(&b, "%s %s %s", status, weather, c.Name)
		if c.Message != "" {
			fmt.Fprintf(&b, " - %s", c.Message)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shocktest/internal/logging"
	"github.com/roach88/shocktest/internal/selfcheck"
)

// SelfcheckResult is the JSON payload of `shocktest selfcheck`.
type SelfcheckResult struct {
	Scenarios []selfcheck.Result `json:"scenarios"`
	OK        bool               `json:"ok"`
}

// NewSelfcheckCommand creates the selfcheck command.
func NewSelfcheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Verify the harness outcome rules",
		Long: `Drive the harness through a fixed set of scenarios, clearing and
re-populating a private registry before each run, and check that every
scenario produces the failure count the outcome rules predict.

The default registry is not touched.

Exit codes:
  0 - Every scenario held
  1 - At least one scenario produced an unexpected failure count`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfcheck(rootOpts, cmd)
		},
	}
}

func runSelfcheck(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	// Scenario reports are diagnostics; only verbose text mode shows them.
	var console io.Writer = io.Discard
	if opts.Verbose && opts.Format != "json" {
		console = cmd.OutOrStdout()
	}

	checker := selfcheck.New(console, logging.New("selfcheck"), opts.runnerOptions()...)
	results, ok := checker.Run(selfcheck.Scenarios())

	var payload any = formatSelfcheck(results)
	if opts.Format == "json" {
		payload = SelfcheckResult{Scenarios: results, OK: ok}
	}
	if err := out.Success(payload); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if !ok {
		return NewExitError(ExitFailure, "selfcheck failed")
	}
	return nil
}

func formatSelfcheck(results []selfcheck.Result) string {
	var b strings.Builder
	held := 0
	for _, r := range results {
		mark := "ok  "
		if r.OK {
			held++
		} else {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s (expected %s, got %d)\n", mark, r.Scenario, r.Expected, r.Failed)
	}
	fmt.Fprintf(&b, "%d/%d scenarios held", held, len(results))
	return b.String()
}

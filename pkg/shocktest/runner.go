package shocktest

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Runner executes the cases of a registry and reports the results.
type Runner struct {
	registry *Registry
	out      io.Writer
	color    bool
	colorSet bool
	logger   *slog.Logger
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithOutput sets the writer that receives the console report.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithColor forces ANSI colors on or off. Without this option colors are
// used only when the output is a terminal.
func WithColor(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.color = enabled
		r.colorSet = true
	}
}

// WithLogger sets the structured logger used for diagnostics.
// The console report is unaffected. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a runner for the given registry.
func NewRunner(reg *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: reg,
		out:      os.Stdout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.colorSet {
		r.color = isTerminal(r.out)
	}
	return r
}

// Run executes every registered case in registration order, one at a time,
// and returns the report. Failures are contained per case: a case that
// panics never prevents later cases from running.
func (r *Runner) Run() *Report {
	cases := r.registry.Cases()
	p := &printer{w: r.out, color: r.color}

	rep := &Report{
		Total: len(cases),
		Cases: make([]CaseResult, 0, len(cases)),
	}

	p.start(rep.Total)
	r.logger.Debug("run started", "cases", rep.Total)

	for i, tc := range cases {
		p.caseStarted(tc)
		r.logger.Debug("case started", "index", i, "case", tc.Name, "weather", tc.Weather())

		res := r.runCase(tc)

		rep.Elapsed += res.Elapsed
		if !res.Passed {
			rep.Failed++
		}
		rep.Cases = append(rep.Cases, res)

		p.caseFinished(tc, res)
		r.logger.Debug("case finished",
			"index", i,
			"case", tc.Name,
			"outcome", res.Outcome.String(),
			"passed", res.Passed,
			"elapsed_ms", res.Elapsed.Milliseconds(),
		)
	}

	p.summary(rep)
	r.logger.Debug("run finished",
		"total", rep.Total,
		"failed", rep.Failed,
		"elapsed_ms", rep.Elapsed.Milliseconds(),
	)

	return rep
}

// runCase executes a single case and folds its outcome against the case
// polarity.
func (r *Runner) runCase(tc TestCase) CaseResult {
	start := r.now()
	outcome, message := invoke(tc.Body)
	elapsed := r.now().Sub(start)

	res := CaseResult{
		Name:       tc.Name,
		ExpectFail: tc.ExpectFail,
		Outcome:    outcome,
		Message:    message,
		Elapsed:    elapsed,
	}

	switch {
	case outcome == OutcomeCompleted && tc.ExpectFail:
		// A bad-weather case that did not raise is a failure even though
		// nothing went wrong.
		res.Passed = false
		res.Message = noExpectedFailureMessage
	case outcome == OutcomeCompleted:
		res.Passed = true
	default:
		// Any signal, recognized or not, satisfies a bad-weather case.
		// The message becomes an informational note.
		res.Passed = tc.ExpectFail
	}

	return res
}

// RunAll runs the default registry, printing the report to stdout, and
// returns the number of failed cases.
func RunAll() int {
	return NewRunner(Default()).Run().Failed
}

// Package selfcheck verifies the harness by driving it from a custom main:
// each scenario clears a registry, registers a handful of cases, runs them
// and compares the failure count against what the outcome rules predict.
package selfcheck

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/shocktest/pkg/shocktest"
)

// Expectation describes the failure count a scenario must produce.
type Expectation int

const (
	// ExpectZero requires every case to pass.
	ExpectZero Expectation = iota
	// ExpectNonZero requires at least one failed case.
	ExpectNonZero
)

func (e Expectation) String() string {
	if e == ExpectZero {
		return "zero failures"
	}
	return "non-zero failures"
}

func (e Expectation) holds(failed int) bool {
	if e == ExpectZero {
		return failed == 0
	}
	return failed != 0
}

// Scenario is one clear/register/run round.
type Scenario struct {
	Name     string
	Register func(reg *shocktest.Registry)
	Want     Expectation
}

// Result is the verdict on one scenario.
type Result struct {
	Scenario string      `json:"scenario"`
	Want     Expectation `json:"-"`
	Expected string      `json:"expected"`
	Failed   int         `json:"failed"`
	OK       bool        `json:"ok"`
}

// Scenarios returns the built-in verification rounds.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name: "goodweather passes",
			Register: func(reg *shocktest.Registry) {
				reg.GoodWeather("goodweather_pass", func() { shocktest.ExpectTrue(true) })
			},
			Want: ExpectZero,
		},
		{
			Name: "badweather failure passes",
			Register: func(reg *shocktest.Registry) {
				reg.BadWeather("badweather_throw_pass", func() { panic(errors.New("expected failure")) })
			},
			Want: ExpectZero,
		},
		{
			Name: "badweather completion fails",
			Register: func(reg *shocktest.Registry) {
				reg.BadWeather("badweather_no_throw_fail", func() {})
			},
			Want: ExpectNonZero,
		},
		{
			Name: "goodweather failure fails",
			Register: func(reg *shocktest.Registry) {
				reg.GoodWeather("goodweather_throw_fail", func() { panic(errors.New("unexpected failure")) })
			},
			Want: ExpectNonZero,
		},
		{
			Name:     "empty registry passes",
			Register: func(*shocktest.Registry) {},
			Want:     ExpectZero,
		},
		{
			Name: "badweather unknown signal passes",
			Register: func(reg *shocktest.Registry) {
				reg.BadWeather("badweather_unknown_pass", func() { panic(42) })
			},
			Want: ExpectZero,
		},
		{
			Name: "failure does not stop later cases",
			Register: func(reg *shocktest.Registry) {
				reg.GoodWeather("first_fails", func() { shocktest.Fail("first") })
				reg.GoodWeather("second_passes", func() {})
				reg.GoodWeather("third_fails", func() { shocktest.Fail("third") })
			},
			Want: ExpectNonZero,
		},
	}
}

// Checker runs scenarios against a private registry so the default registry
// is left untouched.
type Checker struct {
	registry *shocktest.Registry
	out      io.Writer
	logger   *slog.Logger
	opts     []shocktest.RunnerOption
}

// New creates a Checker. Scenario reports are written to out; opts are
// passed to every runner.
func New(out io.Writer, logger *slog.Logger, opts ...shocktest.RunnerOption) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{
		registry: shocktest.NewRegistry(),
		out:      out,
		logger:   logger,
		opts:     opts,
	}
}

// Run executes scenarios in order and reports whether all of them held.
func (c *Checker) Run(scenarios []Scenario) ([]Result, bool) {
	results := make([]Result, 0, len(scenarios))
	allOK := true

	for _, sc := range scenarios {
		c.registry.Clear()
		sc.Register(c.registry)

		fmt.Fprintf(c.out, "--- scenario: %s\n", sc.Name)
		opts := append([]shocktest.RunnerOption{shocktest.WithOutput(c.out)}, c.opts...)
		report := shocktest.NewRunner(c.registry, opts...).Run()

		res := Result{
			Scenario: sc.Name,
			Want:     sc.Want,
			Expected: sc.Want.String(),
			Failed:   report.Failed,
			OK:       sc.Want.holds(report.Failed),
		}
		if !res.OK {
			allOK = false
			c.logger.Error("scenario mismatch",
				slog.String("scenario", sc.Name),
				slog.String("expected", res.Expected),
				slog.Int("failed", res.Failed))
		} else {
			c.logger.Debug("scenario ok", slog.String("scenario", sc.Name), slog.Int("failed", res.Failed))
		}
		results = append(results, res)
	}

	c.registry.Clear()
	return results, allOK
}

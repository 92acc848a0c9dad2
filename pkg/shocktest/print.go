package shocktest

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Fixed-width labels keep the report columns aligned.
const (
	labelRun    = "[ RUN      ]"
	labelPass   = "[       OK ]"
	labelFail   = "[  FAILED  ]"
	labelHeader = "[==========]"
	labelPassed = "[  PASSED  ]"
)

const (
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

// noExpectedFailureMessage is reported when a bad-weather body returns normally.
const noExpectedFailureMessage = "expected failure but none was thrown"

// printer writes the human-readable run report.
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) green(s string) string {
	if !p.color {
		return s
	}
	return ansiGreen + s + ansiReset
}

func (p *printer) red(s string) string {
	if !p.color {
		return s
	}
	return ansiRed + s + ansiReset
}

func (p *printer) weather(tc TestCase) string {
	if tc.ExpectFail {
		return p.red(tc.Weather())
	}
	return p.green(tc.Weather())
}

func (p *printer) start(total int) {
	fmt.Fprintf(p.w, "%s Running %d tests\n", p.green(labelHeader), total)
}

func (p *printer) caseStarted(tc TestCase) {
	fmt.Fprintf(p.w, "%s %s %s ...\n", p.green(labelRun), p.weather(tc), tc.Name)
}

func (p *printer) caseFinished(tc TestCase, res CaseResult) {
	ms := res.Elapsed.Milliseconds()
	switch {
	case !res.Passed:
		fmt.Fprintf(p.w, "%s %s %s - %s (%d ms)\n", p.red(labelFail), p.weather(tc), tc.Name, res.Message, ms)
	case res.Message != "":
		fmt.Fprintf(p.w, "%s %s %s (%d ms) - %s\n", p.green(labelPass), p.weather(tc), tc.Name, ms, res.Message)
	default:
		fmt.Fprintf(p.w, "%s %s %s (%d ms)\n", p.green(labelPass), p.weather(tc), tc.Name, ms)
	}
}

func (p *printer) summary(rep *Report) {
	total := rep.Elapsed.Milliseconds()
	fmt.Fprintf(p.w, "%s %d tests ran.\n", p.green(labelHeader), rep.Total)
	if rep.Failed == 0 {
		fmt.Fprintf(p.w, "%s %d test(s) (%d ms total)\n", p.green(labelPassed), rep.Total, total)
		return
	}
	fmt.Fprintf(p.w, "%s %d test(s), out of %d (%d ms total)\n", p.red(labelFail), rep.Failed, rep.Total, total)
}

// isTerminal reports whether w is a terminal that understands ANSI colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

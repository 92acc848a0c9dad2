package cli

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/roach88/shocktest/internal/config"
	"github.com/roach88/shocktest/internal/testutil"
	"github.com/roach88/shocktest/pkg/shocktest"
)

var epoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// execute runs the CLI in-process with deterministic clock and run IDs.
// The global slog default replaced by the pre-run is restored afterwards.
func execute(t *testing.T, reg *shocktest.Registry, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeEnv(t, nil, reg, args...)
}

// executeEnv is execute with SHOCKTEST_* variables set from env; variables
// not in env are blanked.
func executeEnv(t *testing.T, env map[string]string, reg *shocktest.Registry, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	for _, key := range []string{config.EnvColor, config.EnvFormat, config.EnvLogLevel, config.EnvLogFormat, config.EnvHistoryDB} {
		t.Setenv(key, env[key])
	}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := newRootCommand(&RootOptions{
		Registry: reg,
		Now:      testutil.NewStepClock(epoch, time.Second).Now,
		IDs:      testutil.NewSequentialIDs("run").Next,
	})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func passingRegistry() *shocktest.Registry {
	reg := shocktest.NewRegistry()
	reg.Case("adds", func() { shocktest.ExpectEq(1+1, 2) })
	reg.BadWeather("rejects", func() { shocktest.Fail("bad input") })
	return reg
}

func failingRegistry(failures int) *shocktest.Registry {
	reg := shocktest.NewRegistry()
	reg.Case("passes", func() {})
	for i := 0; i < failures; i++ {
		reg.Case("fails", func() { shocktest.Fail("nope") })
	}
	return reg
}

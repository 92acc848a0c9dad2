package selfcheck

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shocktest/pkg/shocktest"
)

func TestRun_BuiltinScenariosHold(t *testing.T) {
	var out bytes.Buffer
	results, ok := New(&out, nil, shocktest.WithColor(false)).Run(Scenarios())

	require.Len(t, results, len(Scenarios()))
	for _, r := range results {
		assert.True(t, r.OK, "%s: expected %s, got %d failures", r.Scenario, r.Expected, r.Failed)
	}
	assert.True(t, ok)
}

func TestRun_FailureCounts(t *testing.T) {
	results, _ := New(io.Discard, nil).Run(Scenarios())

	failed := make(map[string]int, len(results))
	for _, r := range results {
		failed[r.Scenario] = r.Failed
	}
	assert.Equal(t, 0, failed["goodweather passes"])
	assert.Equal(t, 0, failed["badweather failure passes"])
	assert.Equal(t, 1, failed["badweather completion fails"])
	assert.Equal(t, 1, failed["goodweather failure fails"])
	assert.Equal(t, 0, failed["empty registry passes"])
	assert.Equal(t, 2, failed["failure does not stop later cases"])
}

func TestRun_ClearsBetweenScenarios(t *testing.T) {
	var out bytes.Buffer
	New(&out, nil, shocktest.WithColor(false)).Run(Scenarios()[:2])

	// Each scenario's report covers only its own single case
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Running 1 tests")))
	assert.NotContains(t, out.String(), "Running 2 tests")
}

func TestRun_DetectsMismatch(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	wrong := []Scenario{{
		Name:     "lying scenario",
		Register: func(reg *shocktest.Registry) { reg.BadWeather("completes", func() {}) },
		Want:     ExpectZero,
	}}
	results, ok := New(io.Discard, logger).Run(wrong)

	assert.False(t, ok)
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, 1, results[0].Failed)
	assert.Contains(t, logs.String(), "scenario mismatch")
	assert.Contains(t, logs.String(), `scenario="lying scenario"`)
}

func TestRun_LeavesDefaultRegistryAlone(t *testing.T) {
	before := shocktest.Default().Len()
	New(io.Discard, nil).Run(Scenarios())
	assert.Equal(t, before, shocktest.Default().Len())
}

func TestExpectation_String(t *testing.T) {
	assert.Equal(t, "zero failures", ExpectZero.String())
	assert.Equal(t, "non-zero failures", ExpectNonZero.String())
}

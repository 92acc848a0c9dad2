package shocktest

import (
	"encoding/json"
	"time"
)

// CaseResult is the classified outcome of one executed test case.
type CaseResult struct {
	Name       string        `json:"name"`
	ExpectFail bool          `json:"expect_fail"`
	Outcome    Outcome       `json:"outcome"`
	Passed     bool          `json:"passed"`
	Message    string        `json:"message,omitempty"` // failure reason, or note for an expected failure
	Elapsed    time.Duration `json:"-"`
}

// Report summarizes one run of the registry.
// A fresh report is produced by every call to Runner.Run.
type Report struct {
	Total   int           `json:"total"`
	Failed  int           `json:"failed"`
	Cases   []CaseResult  `json:"cases"`
	Elapsed time.Duration `json:"-"`
}

// MarshalJSON encodes Elapsed as whole milliseconds under elapsed_ms.
func (c CaseResult) MarshalJSON() ([]byte, error) {
	type plain CaseResult
	return json.Marshal(struct {
		plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain(c), c.Elapsed.Milliseconds()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *CaseResult) UnmarshalJSON(data []byte) error {
	type plain CaseResult
	aux := struct {
		*plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Elapsed = time.Duration(aux.ElapsedMS) * time.Millisecond
	return nil
}

// MarshalJSON encodes Elapsed as whole milliseconds under elapsed_ms.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	return json.Marshal(struct {
		plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain(r), r.Elapsed.Milliseconds()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	aux := struct {
		*plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Elapsed = time.Duration(aux.ElapsedMS) * time.Millisecond
	return nil
}

// Passed returns the number of passing cases.
func (r *Report) Passed() int {
	return r.Total - r.Failed
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Snapshot converts the report to plain maps and slices suitable for
// canonical JSON. Elapsed times are only included when timing is true, so a
// snapshot without timing is identical for runs with identical outcomes.
func (r *Report) Snapshot(timing bool) map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		m := map[string]any{
			"name":        c.Name,
			"expect_fail": c.ExpectFail,
			"outcome":     c.Outcome.String(),
			"passed":      c.Passed,
		}
		if c.Message != "" {
			m["message"] = c.Message
		}
		if timing {
			m["elapsed_ms"] = c.Elapsed.Milliseconds()
		}
		cases[i] = m
	}

	snapshot := map[string]any{
		"total":  r.Total,
		"failed": r.Failed,
		"cases":  cases,
	}
	if timing {
		snapshot["elapsed_ms"] = r.Elapsed.Milliseconds()
	}
	return snapshot
}

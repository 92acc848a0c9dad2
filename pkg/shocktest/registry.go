package shocktest

import "sync"

// TestCase is one registered unit of executable behavior.
type TestCase struct {
	// Name identifies the case in reports. Uniqueness is not enforced.
	Name string

	// Body is the code under test. It signals failure by panicking.
	Body func()

	// ExpectFail marks a bad-weather case: the body is expected to raise.
	ExpectFail bool
}

// Weather returns the polarity label printed in reports.
func (tc TestCase) Weather() string {
	if tc.ExpectFail {
		return "BADWEATHER"
	}
	return "GOODWEATHER"
}

// Registry is an ordered, append-only collection of test cases.
// Cases run in the order they were registered.
type Registry struct {
	cases []TestCase
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register appends a test case. Duplicate names are allowed and run
// independently.
func (r *Registry) Register(name string, body func(), expectFail bool) {
	r.cases = append(r.cases, TestCase{Name: name, Body: body, ExpectFail: expectFail})
}

// RegisterE registers a body that reports failure by returning an error.
// A non-nil error is raised as a recognized failure.
func (r *Registry) RegisterE(name string, body func() error, expectFail bool) {
	r.Register(name, func() {
		if err := body(); err != nil {
			panic(&Failure{Message: err.Error()})
		}
	}, expectFail)
}

// GoodWeather registers a case that is expected to complete normally.
func (r *Registry) GoodWeather(name string, body func()) {
	r.Register(name, body, false)
}

// Case is an alias for GoodWeather.
func (r *Registry) Case(name string, body func()) {
	r.GoodWeather(name, body)
}

// BadWeather registers a case that is expected to raise a failure.
func (r *Registry) BadWeather(name string, body func()) {
	r.Register(name, body, true)
}

// Clear removes every registered case.
// Intended for drivers that test the harness itself.
func (r *Registry) Clear() {
	r.cases = nil
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	return len(r.cases)
}

// Cases returns a copy of the registered cases in registration order.
func (r *Registry) Cases() []TestCase {
	out := make([]TestCase, len(r.cases))
	copy(out, r.cases)
	return out
}

// Register appends a case to the default registry.
func Register(name string, body func(), expectFail bool) {
	Default().Register(name, body, expectFail)
}

// RegisterE appends an error-returning case to the default registry.
func RegisterE(name string, body func() error, expectFail bool) {
	Default().RegisterE(name, body, expectFail)
}

// GoodWeather registers a good-weather case in the default registry.
func GoodWeather(name string, body func()) {
	Default().GoodWeather(name, body)
}

// Case is an alias for GoodWeather.
func Case(name string, body func()) {
	Default().Case(name, body)
}

// BadWeather registers a bad-weather case in the default registry.
func BadWeather(name string, body func()) {
	Default().BadWeather(name, body)
}

// Clear empties the default registry.
func Clear() {
	Default().Clear()
}

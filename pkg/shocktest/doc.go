// Package shocktest is a small embeddable unit-testing harness.
//
// Test cases are registered into an ordered registry and executed one at a
// time, in registration order, by a Runner. Every case declares a polarity:
//
//   - good weather: the body is expected to return normally
//   - bad weather: the body is expected to raise a failure signal
//
// A failure signal is a panic. Assertion helpers such as ExpectEq and Fail
// panic with a *Failure; the Runner recovers at the case boundary, so a
// failing case never stops the cases after it.
//
// # Registration
//
// Cases are registered explicitly during startup, before the runner starts:
//
//	func registerTests() {
//	    shocktest.GoodWeather("AddsNumbers", func() {
//	        shocktest.ExpectEq(add(1, 2), 3)
//	    })
//	    shocktest.BadWeather("RejectsNegative", func() {
//	        mustPositive(-1)
//	    })
//	}
//
// # Entry Point
//
// Programs that want the harness to own main call Main, which exits with the
// failure count:
//
//	func main() {
//	    registerTests()
//	    shocktest.Main()
//	}
//
// Custom drivers call RunAll (or NewRunner(...).Run()) as many times as they
// like and reset the registry with Clear between scenarios.
//
// # Report Format
//
//	[==========] Running 2 tests
//	[ RUN      ] GOODWEATHER AddsNumbers ...
//	[       OK ] GOODWEATHER AddsNumbers (0 ms)
//	[ RUN      ] BADWEATHER RejectsNegative ...
//	[       OK ] BADWEATHER RejectsNegative (0 ms) - value must be positive
//	[==========] 2 tests ran.
//	[  PASSED  ] 2 test(s) (0 ms total)
//
// The registry and runner are not safe for concurrent use. They are meant to
// be driven from a single goroutine.
package shocktest

// Version is the harness version.
const Version = "0.2.0"

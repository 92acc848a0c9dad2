// Package suite is the built-in demonstration suite run by `shocktest run`.
//
// Every case is expected to pass; a failing case here means the harness or
// the override guard regressed.
package suite

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/shocktest/pkg/shockmock"
	"github.com/roach88/shocktest/pkg/shocktest"
)

func identity(x int) int { return x }

// calc is the mockable target exercised by OverrideAndRestore.
var calc = shockmock.Declare("calc", identity)

// Register adds the built-in cases to reg in their canonical order.
func Register(reg *shocktest.Registry) {
	reg.Case("OverrideAndRestore", overrideAndRestore)
	reg.Case("ExpectEqEvaluatesOnce", expectEqEvaluatesOnce)
	reg.Case("CustomMainModeWorks", func() { shocktest.ExpectTrue(true) })
	reg.Case("CapturesStdout", capturesStdout)
	reg.Case("PanicAssertions", panicAssertions)
	reg.RegisterE("ParsesInteger", parsesInteger, false)
	reg.BadWeather("RejectsNegativeInput", rejectsNegativeInput)
	reg.BadWeather("RuntimeFaultIsContained", runtimeFault)
	reg.RegisterE("ReturnedErrorFails", returnedError, true)
}

func overrideAndRestore() {
	shocktest.ExpectEq(calc.Get()(10), 10)

	func() {
		defer shockmock.Override(calc, func(x int) int { return x + 1 }).Release()
		shocktest.ExpectEq(calc.Get()(10), 11)

		func() {
			defer shockmock.Override(calc, func(x int) int { return x + 2 }).Release()
			shocktest.ExpectEq(calc.Get()(10), 12)
		}()

		shocktest.ExpectEq(calc.Get()(10), 11)
	}()

	shocktest.ExpectEq(calc.Get()(10), 10)
}

func expectEqEvaluatesOnce() {
	v := 0
	next := func() int {
		v++
		return v
	}
	shocktest.ExpectEq(next(), 1)
	shocktest.ExpectEq(v, 1)
}

func capturesStdout() {
	shocktest.ExpectStdout(func() { fmt.Print("shock") }, "shock")
}

func panicAssertions() {
	shocktest.ExpectPanicMsg(func() { shocktest.Fail("limit exceeded") }, "limit")
	shocktest.ExpectNoPanic(func() {})
}

func parsesInteger() error {
	n, err := strconv.Atoi("42")
	if err != nil {
		return err
	}
	shocktest.ExpectEq(n, 42)
	return nil
}

// validate is the code under test for the bad-weather cases.
func validate(n int) {
	if n < 0 {
		shocktest.Failf("negative input %d", n)
	}
}

func rejectsNegativeInput() {
	validate(-1)
}

func runtimeFault() {
	var counts map[string]int
	counts["boom"]++
}

func returnedError() error {
	return errors.New("upstream unavailable")
}

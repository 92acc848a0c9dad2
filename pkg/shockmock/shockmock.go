// Package shockmock substitutes named functions for the duration of a scope.
//
// A mockable target is declared once as a Slot holding its real
// implementation. Callers always dispatch through the slot:
//
//	var parse = shockmock.Declare("parse", realParse)
//
//	func evaluate(src string) int {
//	    return parse.Get()(src)
//	}
//
// A test swaps the implementation with a Guard and releases it on scope
// exit, normally with defer so the original is restored on every path,
// panics included:
//
//	defer shockmock.Override(parse, fakeParse).Release()
//
// Guards nest. Each guard restores the value the slot held when that guard
// was created, so releasing guards in reverse order of creation walks the
// slot back through every intermediate implementation. Releasing them in any
// other order is not supported.
//
// Slots are plain mutable state without synchronization; override them only
// from the goroutine that runs the test.
package shockmock

import "testing"

// Slot is the single mutable cell holding the current implementation of a
// mockable target.
type Slot[T any] struct {
	name    string
	current T
}

// Declare creates the slot for a mockable target, initialized to its real
// implementation.
func Declare[T any](name string, impl T) *Slot[T] {
	return &Slot[T]{name: name, current: impl}
}

// Name returns the target name given to Declare.
func (s *Slot[T]) Name() string {
	return s.name
}

// Get returns the implementation currently installed in the slot.
func (s *Slot[T]) Get() T {
	return s.current
}

// noCopy marks a struct that must not be copied after first use.
// go vet's copylocks check reports copies of structs containing it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Guard installs a temporary implementation in a slot and restores the
// previous one when released. Guards are only handed out by pointer and must
// not be copied: a copy would carry a second restore obligation for the
// same slot.
type Guard[T any] struct {
	_        noCopy
	slot     *Slot[T]
	original T
	released bool
}

// Override installs impl in slot and returns the guard that undoes it.
func Override[T any](slot *Slot[T], impl T) *Guard[T] {
	g := &Guard[T]{slot: slot, original: slot.current}
	slot.current = impl
	return g
}

// Release writes back the implementation the slot held when the guard was
// created. Only the first call has an effect.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.slot.current = g.original
}

// Released reports whether Release has run.
func (g *Guard[T]) Released() bool {
	return g.released
}

// Scoped runs fn with impl installed in slot and restores the previous
// implementation when fn returns or panics.
func Scoped[T any](slot *Slot[T], impl T, fn func()) {
	defer Override(slot, impl).Release()
	fn()
}

// OverrideT installs impl for the rest of the test. Restoration is
// registered with t.Cleanup, which runs cleanups last-in first-out, so
// nested OverrideT calls unwind in the right order.
func OverrideT[T any](t testing.TB, slot *Slot[T], impl T) {
	t.Helper()
	t.Cleanup(Override(slot, impl).Release)
}

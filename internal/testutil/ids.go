package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable identifiers for tests.
//
// The history store normally stamps runs with UUIDv7 identifiers; tests
// inject SequentialIDs.Next so stored rows can be asserted by ID.
//
// Thread-safety: SequentialIDs is safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator producing prefix-1, prefix-2, ...
// If prefix is empty, "test-run" is used.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "test-run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next identifier.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

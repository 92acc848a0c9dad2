package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestStepClock_FirstReadIsStart(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, 1, clock.Reads())
}

func TestStepClock_AdvancesByStep(t *testing.T) {
	clock := NewStepClock(epoch, 5*time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, 5*time.Millisecond, second.Sub(first))
	assert.Equal(t, 5*time.Millisecond, third.Sub(second))
	assert.Equal(t, 3, clock.Reads())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, 0, clock.Reads())
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	const numGoroutines = 50
	const readsPerGoroutine = 20

	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < readsPerGoroutine; j++ {
				now := clock.Now()
				mu.Lock()
				seen[now] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every read observed a distinct instant
	assert.Len(t, seen, numGoroutines*readsPerGoroutine)
	assert.Equal(t, numGoroutines*readsPerGoroutine, clock.Reads())
}

package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, Epoch, clock.Peek())
	assert.Equal(t, Epoch, clock.Now())
}

func TestDeterministicClock_AdvancesBySteps(t *testing.T) {
	clock := NewDeterministicClock()

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, time.Second, second.Sub(first))
	assert.Equal(t, time.Second, third.Sub(second))
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock()
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock()
	const goroutines = 50

	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[time.Time]bool{}
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines)
	assert.Equal(t, Epoch.Add(goroutines*time.Second), clock.Peek())
}

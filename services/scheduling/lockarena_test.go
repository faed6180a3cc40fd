package scheduling

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockArena_AcquireAndRelease(t *testing.T) {
	arena := NewLockArena()

	release, ok := arena.Acquire("k", time.Second)
	require.True(t, ok)
	release()

	release, ok = arena.Acquire("k", time.Second)
	require.True(t, ok)
	release()
}

func TestLockArena_HeldLockTimesOut(t *testing.T) {
	arena := NewLockArena()

	release, ok := arena.Acquire("k", time.Second)
	require.True(t, ok)
	defer release()

	_, ok = arena.Acquire("k", 20*time.Millisecond)
	assert.False(t, ok)
}

func TestLockArena_IndependentKeysDoNotBlock(t *testing.T) {
	arena := NewLockArena()

	releaseA, ok := arena.Acquire("a", time.Second)
	require.True(t, ok)
	defer releaseA()

	releaseB, ok := arena.Acquire("b", 20*time.Millisecond)
	require.True(t, ok)
	releaseB()
}

func TestLockArena_SerializesSameKey(t *testing.T) {
	arena := NewLockArena()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := arena.Acquire("k", 5*time.Second)
			if !ok {
				return
			}
			defer release()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, workers, counter)
}

func TestLockArena_EntriesAreReclaimed(t *testing.T) {
	arena := NewLockArena()

	release, ok := arena.Acquire("k", time.Second)
	require.True(t, ok)
	release()

	arena.mu.Lock()
	defer arena.mu.Unlock()
	assert.Empty(t, arena.entries)
}

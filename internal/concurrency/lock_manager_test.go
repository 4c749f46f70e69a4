package concurrency

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLock_SameKeyReturnsSameMutex(t *testing.T) {
	lm := NewLockManager()

	a := lm.GetLock("player-1")
	b := lm.GetLock("player-1")

	assert.Same(t, a, b)
}

func TestGetLock_DifferentKeysReturnDifferentMutexes(t *testing.T) {
	lm := NewLockManager()

	a := lm.GetLock("player-1")
	b := lm.GetLock("player-2")

	assert.NotSame(t, a, b)
}

func TestWithLock_SerializesAccess(t *testing.T) {
	lm := NewLockManager()

	const goroutines = 50
	const increments = 100

	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				err := lm.WithLock("counter", func() error {
					counter++
					return nil
				})
				require.NoError(t, err)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, goroutines*increments, counter)
}

func TestWithLock_PropagatesError(t *testing.T) {
	lm := NewLockManager()

	err := lm.WithLock("player-1", func() error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestWithLock_ReleasesLockAfterError(t *testing.T) {
	lm := NewLockManager()

	_ = lm.WithLock("player-1", func() error {
		return assert.AnError
	})

	// A failed callback must not leave the lock held.
	ran := false
	err := lm.WithLock("player-1", func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

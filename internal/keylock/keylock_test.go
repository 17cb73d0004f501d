package keylock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parcel-dispatch/internal/keylock"
)

func TestMap_SerializesSameKey(t *testing.T) {
	t.Parallel()

	m := keylock.New()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("order-1")
			defer unlock()
			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), maxInside.Load())
	require.Zero(t, m.Len(), "entries must be released")
}

func TestMap_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	m := keylock.New()
	unlockA := m.Lock("order-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := m.Lock("order-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
}

func TestMap_UnlockIsIdempotent(t *testing.T) {
	t.Parallel()

	m := keylock.New()
	unlock := m.Lock("k")
	unlock()
	unlock()
	require.Zero(t, m.Len())

	unlock = m.Lock("k")
	unlock()
}

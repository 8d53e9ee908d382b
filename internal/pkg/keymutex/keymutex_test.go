package keymutex_test

import (
	"sync"
	"testing"
	"time"

	"fulfillment/internal/pkg/keymutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	km := keymutex.New()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("order-1")
			defer km.Unlock("order-1")

			// Unsynchronized read-modify-write; only the key lock protects it.
			current := counter
			time.Sleep(time.Microsecond)
			counter = current + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyMutex_DistinctKeysDoNotBlock(t *testing.T) {
	km := keymutex.New()

	km.Lock("order-1")
	defer km.Unlock("order-1")

	acquired := make(chan struct{})
	go func() {
		km.Lock("order-2")
		defer km.Unlock("order-2")
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a distinct key blocked behind an unrelated holder")
	}
}

func TestKeyMutex_ReleasedKeyCanBeReacquired(t *testing.T) {
	km := keymutex.New()

	km.Lock("order-1")
	km.Unlock("order-1")

	done := make(chan struct{})
	go func() {
		km.Lock("order-1")
		km.Unlock("order-1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("released key could not be reacquired")
	}
}

func TestKeyMutex_UnlockWithoutLockPanics(t *testing.T) {
	km := keymutex.New()

	require.Panics(t, func() {
		km.Unlock("never-locked")
	})
}

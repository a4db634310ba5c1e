package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderLocksSerializeSameID(t *testing.T) {
	locks := NewOrderLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockAllDeduplicatesIDs(t *testing.T) {
	locks := NewOrderLocks()

	// A repeated id must not self-deadlock.
	unlock := locks.LockAll([]int{3, 1, 3, 2})
	unlock()

	// Everything is released: a second acquisition succeeds.
	unlock = locks.LockAll([]int{1, 2, 3})
	unlock()
}

func TestLockAllOrderingPreventsDeadlock(t *testing.T) {
	locks := NewOrderLocks()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Opposite selection orders, same lock set.
			ids := []int{1, 2, 3}
			if n%2 == 0 {
				ids = []int{3, 2, 1}
			}
			unlock := locks.LockAll(ids)
			unlock()
		}(i)
	}
	wg.Wait()
}

package services

import (
	"sort"
	"sync"
)

// OrderLocks serializes mutations per order id. Merge, payment and
// order-edit operations read an order, compute, then write it back;
// two such operations interleaving on the same id would lose writes.
// One registry is shared by every service that mutates orders, so a
// merge holding an id blocks payments and edits on that id too.
type OrderLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewOrderLocks() *OrderLocks {
	return &OrderLocks{locks: make(map[int]*sync.Mutex)}
}

func (l *OrderLocks) get(id int) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Lock acquires the mutex for one order id.
func (l *OrderLocks) Lock(id int) func() {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// LockAll acquires the mutexes for a set of order ids in ascending id
// order, so two overlapping merges cannot deadlock.
func (l *OrderLocks) LockAll(ids []int) func() {
	sorted := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Ints(sorted)

	muxes := make([]*sync.Mutex, len(sorted))
	for i, id := range sorted {
		muxes[i] = l.get(id)
		muxes[i].Lock()
	}
	return func() {
		for i := len(muxes) - 1; i >= 0; i-- {
			muxes[i].Unlock()
		}
	}
}

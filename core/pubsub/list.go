package pubsub

import (
	"slices"
	"sync"
)

// list is the single-owner subscriber store. It has no synchronization.
type list[H comparable] struct {
	items []H
}

func (l *list[H]) add(h H) {
	l.items = append(l.items, h)
}

// remove deletes every entry equal to h and reports how many were removed.
// The list is rebuilt rather than compacted in place so a slice returned by an earlier
// snapshot keeps its contents.
func (l *list[H]) remove(h H) int {
	if !slices.Contains(l.items, h) {
		return 0
	}
	before := len(l.items)
	l.items = slices.DeleteFunc(slices.Clone(l.items), func(item H) bool { return item == h })
	return before - len(l.items)
}

func (l *list[H]) snapshot() []H {
	return l.items
}

func (l *list[H]) len() int {
	return len(l.items)
}

func (l *list[H]) clone() list[H] {
	return list[H]{items: slices.Clone(l.items)}
}

// lockedList is the thread-sharing subscriber store.
// Slices are copy-on-write: a snapshot handed to a publisher is never modified afterwards,
// so delivery runs without holding the lock.
type lockedList[H comparable] struct {
	mu    sync.RWMutex
	items []H
}

func (l *lockedList[H]) add(h H) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]H, len(l.items), len(l.items)+1)
	copy(next, l.items)
	l.items = append(next, h)
}

func (l *lockedList[H]) remove(h H) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]H, 0, len(l.items))
	for _, item := range l.items {
		if item != h {
			next = append(next, item)
		}
	}

	removed := len(l.items) - len(next)
	if removed > 0 {
		l.items = next
	}
	return removed
}

func (l *lockedList[H]) snapshot() []H {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items
}

func (l *lockedList[H]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

package repository

import "sync"

// view holds the continuously refreshed snapshot of a store and fans it out
// to subscribers. Each repository refreshes its view inside the serialized
// write, so observers see snapshots in commit order.
type view[T any] struct {
	mu     sync.Mutex
	latest []T
	subs   map[int]chan []T
	nextID int
}

func newView[T any]() *view[T] {
	return &view[T]{subs: make(map[int]chan []T)}
}

// publish replaces the snapshot and notifies subscribers. Slow subscribers
// are coalesced: they always get the newest snapshot, never a backlog.
func (v *view[T]) publish(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.latest = items
	for _, ch := range v.subs {
		select {
		case ch <- items:
		default:
			// Drop the stale snapshot and replace it with the new one.
			select {
			case <-ch:
			default:
			}
			ch <- items
		}
	}
}

// snapshot returns the current cached snapshot.
func (v *view[T]) snapshot() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest
}

// subscribe returns a channel that immediately yields the current snapshot
// and then every subsequent one, plus a cancel function. The channel is
// closed on cancel.
func (v *view[T]) subscribe() (<-chan []T, func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	ch := make(chan []T, 1)
	ch <- v.latest
	v.subs[id] = ch
	v.mu.Unlock()

	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

package storage

import (
	"context"
	"sync"

	"github.com/jstrick/ritual/internal/logger"
)

// Feed is an in-process change-notification hub shared by the provider
// implementations. Writes publish after commit; subscribers receive events
// until their context ends.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener released when ctx is done. The channel is
// buffered; a subscriber that falls behind loses events rather than blocking
// writers, which is safe because events only signal "re-read".
func (f *Feed) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish fans ev out to all current subscribers without blocking.
func (f *Feed) Publish(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
			logger.Debug("Dropping change event for slow subscriber", "kind", ev.Kind, "day", ev.Day)
		}
	}
}

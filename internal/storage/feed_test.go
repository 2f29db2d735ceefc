package storage

import (
	"context"
	"testing"
	"time"
)

func TestFeed_FanOut(t *testing.T) {
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := f.Subscribe(ctx)
	b := f.Subscribe(ctx)

	f.Publish(Event{Kind: EventDay, Day: "2024-05-11"})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Kind != EventDay || ev.Day != "2024-05-11" {
				t.Errorf("got event %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.Subscribe(ctx) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			f.Publish(Event{Kind: EventHabits})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestFeed_UnsubscribeOnContextDone(t *testing.T) {
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())

	ch := f.Subscribe(ctx)
	cancel()

	// The channel closes once the subscription is released.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jstrick/ritual/internal/storage"
)

type WatchCmd struct{}

// Run subscribes to the store's change feed and prints events until
// interrupted. The subscription is released when the context ends.
func (c *WatchCmd) Run(ctx *Context) error {
	watchCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	events, err := ctx.Store.WatchChanges(watchCtx)
	if err != nil {
		return err
	}

	fmt.Println("Watching for changes (Ctrl-C to stop)...")
	for ev := range events {
		switch ev.Kind {
		case storage.EventDay:
			fmt.Printf("day record changed: %s\n", ev.Day)
		case storage.EventHabits:
			fmt.Println("habit collection changed")
		case storage.EventGoals:
			fmt.Println("goal collection changed")
		}
	}
	return nil
}

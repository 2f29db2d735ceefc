package cli

import (
	"context"
	"fmt"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(context.Background()); err != nil {
		return err
	}
	fmt.Println("Storage initialized.")
	return nil
}

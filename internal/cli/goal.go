package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jstrick/ritual/internal/models"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Add a goal."`
	List   GoalListCmd   `cmd:"" help:"List goals."`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a goal."`
}

type GoalAddCmd struct {
	Text string `arg:"" help:"Goal text."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("goal text must not be empty")
	}

	goal := models.Goal{
		ID:        uuid.New().String(),
		Text:      c.Text,
		CreatedAt: ctx.Today(),
	}
	if err := ctx.Store.AddGoal(context.Background(), goal); err != nil {
		return err
	}

	fmt.Printf("Added goal: %s\n", c.Text)
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals, err := ctx.Store.GetAllGoals(context.Background())
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	for i, g := range goals {
		fmt.Printf("%d. %s\n", i+1, g.Text)
	}
	return nil
}

type GoalDeleteCmd struct {
	Number int `arg:"" help:"Goal number as shown by 'goal list'."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	goals, err := ctx.Store.GetAllGoals(context.Background())
	if err != nil {
		return err
	}
	if c.Number < 1 || c.Number > len(goals) {
		return fmt.Errorf("no goal numbered %d", c.Number)
	}

	goal := goals[c.Number-1]
	if err := ctx.Store.DeleteGoal(context.Background(), goal.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted goal: %s\n", goal.Text)
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

type CheckinCmd struct {
	Set  CheckinSetCmd  `cmd:"" help:"Record today's mood."`
	Show CheckinShowCmd `cmd:"" help:"Show a day's mood check-in."`
}

type CheckinSetCmd struct {
	Mood string `arg:"" help:"Mood label (e.g. great, okay, rough)."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *CheckinSetCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	checkIn := models.CheckIn{
		Day:       models.DayKey(date),
		Mood:      c.Mood,
		CreatedAt: ctx.Today(),
	}
	if err := ctx.Store.SaveCheckIn(context.Background(), checkIn); err != nil {
		return err
	}

	fmt.Printf("Checked in for %s: %s\n", checkIn.Day, c.Mood)
	return nil
}

type CheckinShowCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *CheckinShowCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	checkIn, err := ctx.Store.GetCheckIn(context.Background(), models.DayKey(date))
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("No check-in for %s.\n", models.DayKey(date))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", checkIn.Day, checkIn.Mood)
	return nil
}

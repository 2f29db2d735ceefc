package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/schedule"
	"github.com/jstrick/ritual/internal/storage"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks."`
	Today  HabitTodayCmd  `cmd:"" help:"Show habits due today and their status."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	Note   HabitNoteCmd   `cmd:"" help:"Attach a note to a habit for a day."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit's name or recurrence."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Log    HabitLogCmd    `cmd:"" help:"Show habit history (ASCII grid)."`
}

type HabitAddCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Repeat   string `help:"Recurrence: daily, weekly, or monthly." enum:"daily,weekly,monthly" default:"daily"`
	Weekdays string `help:"Comma-separated weekdays for weekly habits (e.g. mon,wed,fri)." default:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("habit name must not be empty")
	}

	// Reject duplicates by name so toggling by name stays unambiguous.
	if _, err := ctx.Store.GetHabitByName(context.Background(), c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	rec := models.Recurrence{Type: models.RecurrenceType(c.Repeat)}
	if c.Weekdays != "" {
		if rec.Type != models.RecurrenceWeekly {
			return fmt.Errorf("--weekdays only applies to weekly habits")
		}
		weekdays, err := ParseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		rec.Weekdays = weekdays
	}

	habit := models.Habit{
		ID:         uuid.New().String(),
		Name:       c.Name,
		Recurrence: rec,
		CreatedAt:  ctx.Today(),
	}
	if err := ctx.Store.AddHabit(context.Background(), habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", c.Name, FormatRecurrence(rec))
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(context.Background())
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		fmt.Printf("%-24s %-22s streak %d (best %d)\n",
			h.Name, FormatRecurrence(h.Recurrence), h.CurrentStreak, h.LongestStreak)
	}
	return nil
}

type HabitTodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	due, err := ctx.Engine.DueToday(context.Background(), date)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println("No habits due.")
		return nil
	}

	day, err := ctx.Store.GetDayRecord(context.Background(), models.DayKey(date))
	if err != nil {
		return err
	}

	fmt.Printf("Habits for %s:\n\n", models.DayKey(date))
	done := 0
	for _, h := range due {
		status := "[ ]"
		if day.IsCompleted(h.ID) {
			status = "[x]"
			done++
		}
		line := fmt.Sprintf("%s %s", status, h.Name)
		if h.CurrentStreak > 0 {
			line += fmt.Sprintf("  (streak %d)", h.CurrentStreak)
		}
		if note, ok := day.Notes[h.ID]; ok {
			line += fmt.Sprintf("  note: %s", note)
		}
		fmt.Println(line)
	}
	fmt.Printf("\nDone: %d/%d\n", done, len(due))
	return nil
}

type HabitToggleCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	result, err := ctx.Engine.Toggle(context.Background(), habit.ID, date)
	if err != nil {
		return err
	}

	if result.Completed {
		fmt.Printf("Marked %q done for %s (streak %d, best %d)\n",
			c.Name, models.DayKey(date), result.Habit.CurrentStreak, result.Habit.LongestStreak)
	} else {
		fmt.Printf("Unmarked %q for %s (streak %d)\n",
			c.Name, models.DayKey(date), result.Habit.CurrentStreak)
	}
	return nil
}

type HabitNoteCmd struct {
	Name string `arg:"" help:"Habit name."`
	Note string `arg:"" help:"Note text (empty clears the note)."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitNoteCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Engine.SaveNote(context.Background(), habit.ID, c.Note, date); err != nil {
		return err
	}

	if c.Note == "" {
		fmt.Printf("Cleared note for %q on %s\n", c.Name, models.DayKey(date))
	} else {
		fmt.Printf("Saved note for %q on %s\n", c.Name, models.DayKey(date))
	}
	return nil
}

type HabitEditCmd struct {
	Name     string `arg:"" help:"Current habit name."`
	Rename   string `help:"New habit name." default:""`
	Repeat   string `help:"New recurrence: daily, weekly, or monthly." default:""`
	Weekdays string `help:"Comma-separated weekdays for weekly habits." default:""`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	if c.Rename != "" {
		if _, err := ctx.Store.GetHabitByName(context.Background(), c.Rename); err == nil {
			return fmt.Errorf("habit with name %q already exists", c.Rename)
		}
		habit.Name = c.Rename
	}
	if c.Repeat != "" {
		switch models.RecurrenceType(c.Repeat) {
		case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
			habit.Recurrence.Type = models.RecurrenceType(c.Repeat)
			if habit.Recurrence.Type != models.RecurrenceWeekly {
				habit.Recurrence.Weekdays = nil
			}
		default:
			return fmt.Errorf("invalid recurrence %q", c.Repeat)
		}
	}
	if c.Weekdays != "" {
		if habit.Recurrence.Type != models.RecurrenceWeekly {
			return fmt.Errorf("--weekdays only applies to weekly habits")
		}
		weekdays, err := ParseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		habit.Recurrence.Weekdays = weekdays
	}

	if err := ctx.Store.UpdateHabit(context.Background(), habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s (%s)\n", habit.Name, FormatRecurrence(habit.Recurrence))
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	if err := ctx.Engine.DeleteHabit(context.Background(), habit.ID, ctx.Today()); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", c.Name)
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for a specific habit only." default:""`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	habits, err := ctx.Store.GetAllHabits(context.Background())
	if err != nil {
		return err
	}
	if c.Habit != "" {
		var selected []models.Habit
		for _, h := range habits {
			if h.Name == c.Habit {
				selected = append(selected, h)
				break
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		habits = selected
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	end := ctx.Today()
	start := end.AddDate(0, 0, -(c.Days - 1))

	// One day-record read per day covers every habit's column.
	days := make([]models.DayRecord, 0, c.Days)
	for i := 0; i < c.Days; i++ {
		day, err := ctx.Store.GetDayRecord(context.Background(), models.DayKey(start.AddDate(0, 0, i)))
		if err != nil {
			return err
		}
		days = append(days, day)
	}

	const nameWidth = 20
	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(strings.Repeat(" ", nameWidth))
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", start.AddDate(0, 0, i).Format("01/02"))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, h := range habits {
		name := truncateName(h.Name, nameWidth)
		fmt.Printf("%-*s", nameWidth, name)
		for i := 0; i < c.Days; i++ {
			date := start.AddDate(0, 0, i)
			mark := "."
			if days[i].IsCompleted(h.ID) {
				mark = "x"
			} else if !isDue(h, date) {
				mark = " "
			}
			fmt.Printf("  %s   ", mark)
		}
		fmt.Println()
	}
	return nil
}

// isDue lets the log grid distinguish "missed" from "not due".
func isDue(h models.Habit, date time.Time) bool {
	return schedule.IsDueOn(h.Recurrence, date)
}

// truncateName shortens a habit name to width, counting runes so multi-byte
// names are never cut mid-character.
func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	return string(runes[:width-3]) + "..."
}

// findHabit looks a habit up by name, reporting a lookup miss as such and
// passing every other store failure through unchanged.
func findHabit(ctx *Context, name string) (models.Habit, error) {
	habit, err := ctx.Store.GetHabitByName(context.Background(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q not found", name)
	}
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

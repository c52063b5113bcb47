package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/repository"
)

// runEffects persists effects in order and stops at the first failure.
func runEffects(ctx context.Context, stores repository.Stores, effects []engine.Effect) error {
	for _, effect := range effects {
		if err := runEffect(ctx, stores, effect); err != nil {
			return err
		}
	}
	return nil
}

func runEffect(ctx context.Context, stores repository.Stores, effect engine.Effect) error {
	var err error
	switch e := effect.(type) {
	case engine.UpsertHabitEntry:
		err = stores.Habits.UpsertHabitEntry(ctx, e.HabitID, e.Date, e.Status)
	case engine.AppendGoalEntry:
		_, err = stores.Goals.AppendGoalEntry(ctx, e.GoalID, e.Entry)
	case engine.UpdateGoalEntry:
		err = stores.Goals.UpdateGoalEntry(ctx, e.GoalID, e.EntryID, e.Amount, e.Reversed)
	case engine.SetGoalCurrent:
		err = stores.Goals.SetGoalCurrent(ctx, e.GoalID, e.Current)
	case engine.AppendLog:
		err = stores.Activity.AppendLog(ctx, e.Entry)
	case engine.MarkLogReversed:
		err = stores.Activity.MarkLogReversed(ctx, e.LogID)
	case engine.UpdateLogEntry:
		err = stores.Activity.UpdateLogEntry(ctx, e.LogID, e.Description, e.Amount)
	default:
		return fmt.Errorf("unknown effect %T", effect)
	}
	if err != nil {
		return fmt.Errorf("%T: %w", effect, err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

// HabitRepository persists habit aggregates. GetByID loads the habit with
// its full entry history; List returns habits without entries.
type HabitRepository interface {
	Create(ctx context.Context, h model.Habit) (model.Habit, error)
	GetByID(ctx context.Context, userID, habitID string) (model.Habit, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]model.Habit, error)
	Update(ctx context.Context, h model.Habit) (model.Habit, error)
	Delete(ctx context.Context, userID, habitID string) error

	// UpsertEntry inserts or overwrites the entry for its calendar day,
	// backing the at-most-one-entry-per-day invariant with a unique index.
	UpsertEntry(ctx context.Context, e model.HabitEntry) (model.HabitEntry, error)
	DeleteEntryByDay(ctx context.Context, habitID string, day time.Time) error
}

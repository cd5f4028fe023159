package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jaekwang-park/momentum-api/internal/progress"
)

// PostgresPauseStore backs the day-scoped habit pause flag with a
// (habit_id, pause_date) table. A flag "expires" simply because queries
// always ask about a specific date; stale rows are inert.
type PostgresPauseStore struct {
	db *sql.DB
}

func NewPostgresPause(db *sql.DB) *PostgresPauseStore {
	return &PostgresPauseStore{db: db}
}

func (s *PostgresPauseStore) SetPaused(ctx context.Context, habitID string, day time.Time) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_pauses (habit_id, pause_date)
		VALUES ($1, $2)
		ON CONFLICT (habit_id, pause_date) DO NOTHING`,
		habitID, pauseDate(day),
	); err != nil {
		return fmt.Errorf("failed to set pause flag: %w", err)
	}
	return nil
}

func (s *PostgresPauseStore) IsPaused(ctx context.Context, habitID string, day time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM habit_pauses WHERE habit_id = $1 AND pause_date = $2
		)`, habitID, pauseDate(day),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pause flag: %w", err)
	}
	return exists, nil
}

func (s *PostgresPauseStore) ClearPaused(ctx context.Context, habitID string, day time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM habit_pauses WHERE habit_id = $1 AND pause_date = $2`,
		habitID, pauseDate(day),
	); err != nil {
		return fmt.Errorf("failed to clear pause flag: %w", err)
	}
	return nil
}

// pauseDate reduces an instant to its calendar-date string, matching the
// yyyy-MM-dd granularity of the pause key.
func pauseDate(day time.Time) string {
	return day.Format("2006-01-02")
}

var _ progress.PauseStore = (*PostgresPauseStore)(nil)

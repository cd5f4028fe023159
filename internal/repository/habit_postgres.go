package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

type PostgresHabitRepository struct {
	db *sql.DB
}

func NewPostgresHabit(db *sql.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

const habitColumns = `id, user_id, title, description, target_value, unit, frequency,
	max_completion_days, milestone_shown, is_terminated, terminated_date, color_code,
	created_at, updated_at`

func (r *PostgresHabitRepository) Create(ctx context.Context, h model.Habit) (model.Habit, error) {
	query := `
		INSERT INTO habits (id, user_id, title, description, target_value, unit, frequency,
			max_completion_days, color_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Description, h.TargetValue, h.Unit, h.Frequency,
		h.MaxCompletionDays, h.ColorCode,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}
	h.Entries = []model.HabitEntry{}
	return h, nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, userID, habitID string) (model.Habit, error) {
	query := fmt.Sprintf(`SELECT %s FROM habits WHERE id = $1 AND user_id = $2`, habitColumns)
	h, err := scanHabit(r.db.QueryRowContext(ctx, query, habitID, userID))
	if err != nil {
		return model.Habit{}, err
	}

	entries, err := r.loadEntries(ctx, habitID)
	if err != nil {
		return model.Habit{}, err
	}
	h.Entries = entries
	return h, nil
}

func (r *PostgresHabitRepository) List(ctx context.Context, userID string, activeOnly bool) ([]model.Habit, error) {
	query := fmt.Sprintf(`SELECT %s FROM habits WHERE user_id = $1`, habitColumns)
	if activeOnly {
		query += ` AND is_terminated = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h model.Habit) (model.Habit, error) {
	query := fmt.Sprintf(`
		UPDATE habits
		SET title = $1, description = $2, target_value = $3, unit = $4, frequency = $5,
			max_completion_days = $6, milestone_shown = $7, is_terminated = $8,
			terminated_date = $9, color_code = $10, updated_at = now()
		WHERE id = $11 AND user_id = $12
		RETURNING %s`, habitColumns)

	row := r.db.QueryRowContext(ctx, query,
		h.Title, h.Description, h.TargetValue, h.Unit, h.Frequency,
		h.MaxCompletionDays, h.MilestoneShown, h.IsTerminated,
		h.TerminatedDate, h.ColorCode, h.ID, h.UserID,
	)
	updated, err := scanHabit(row)
	if err != nil {
		return model.Habit{}, err
	}
	updated.Entries = h.Entries
	return updated, nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, userID, habitID string) error {
	// Entries go with the habit via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresHabitRepository) UpsertEntry(ctx context.Context, e model.HabitEntry) (model.HabitEntry, error) {
	query := `
		INSERT INTO habit_entries (id, habit_id, entry_date, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, entry_date) DO UPDATE SET value = EXCLUDED.value
		RETURNING id, habit_id, entry_date, value`

	// DATE columns get the calendar date, not an instant, so the stored day
	// can never shift across the server's timezone.
	row := r.db.QueryRowContext(ctx, query, e.ID, e.HabitID, entryDate(e.Date), e.Value)
	if err := row.Scan(&e.ID, &e.HabitID, &e.Date, &e.Value); err != nil {
		return model.HabitEntry{}, fmt.Errorf("failed to upsert habit entry: %w", err)
	}
	return e, nil
}

func (r *PostgresHabitRepository) DeleteEntryByDay(ctx context.Context, habitID string, day time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM habit_entries WHERE habit_id = $1 AND entry_date = $2`, habitID, entryDate(day),
	); err != nil {
		return fmt.Errorf("failed to delete habit entry: %w", err)
	}
	// Removing a nonexistent entry is not an error.
	return nil
}

func entryDate(day time.Time) string {
	return day.Format("2006-01-02")
}

func (r *PostgresHabitRepository) loadEntries(ctx context.Context, habitID string) ([]model.HabitEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, habit_id, entry_date, value
		FROM habit_entries
		WHERE habit_id = $1
		ORDER BY entry_date ASC`, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit entries: %w", err)
	}
	defer rows.Close()

	entries := []model.HabitEntry{}
	for rows.Next() {
		var e model.HabitEntry
		if err := rows.Scan(&e.ID, &e.HabitID, &e.Date, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan habit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit entries: %w", err)
	}
	return entries, nil
}

func scanHabit(row scannable) (model.Habit, error) {
	var h model.Habit
	var terminatedDate sql.NullTime
	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.TargetValue, &h.Unit, &h.Frequency,
		&h.MaxCompletionDays, &h.MilestoneShown, &h.IsTerminated, &terminatedDate,
		&h.ColorCode, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to scan habit: %w", err)
	}
	if terminatedDate.Valid {
		h.TerminatedDate = &terminatedDate.Time
	}
	return h, nil
}

var _ HabitRepository = (*PostgresHabitRepository)(nil)

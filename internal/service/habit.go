package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jaekwang-park/momentum-api/internal/model"
	"github.com/jaekwang-park/momentum-api/internal/progress"
	"github.com/jaekwang-park/momentum-api/internal/repository"
)

type CreateHabitInput struct {
	Title             string
	Description       string
	TargetValue       float64
	Unit              string
	Frequency         string
	MaxCompletionDays int
	ColorCode         string
}

type UpdateHabitInput struct {
	Title             *string
	Description       *string
	TargetValue       *float64
	Unit              *string
	Frequency         *string
	MaxCompletionDays *int
	ColorCode         *string
}

type HabitService struct {
	repo   repository.HabitRepository
	pauses progress.PauseStore
	engine *progress.Engine
	now    progress.Clock
}

func NewHabitService(repo repository.HabitRepository, pauses progress.PauseStore, engine *progress.Engine, now progress.Clock) *HabitService {
	if now == nil {
		now = defaultClock()
	}
	return &HabitService{repo: repo, pauses: pauses, engine: engine, now: now}
}

func (s *HabitService) Create(ctx context.Context, userID string, input CreateHabitInput) (model.Habit, error) {
	if input.Title == "" {
		return model.Habit{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.TargetValue <= 0 {
		return model.Habit{}, fmt.Errorf("%w: target value must be positive", ErrInvalidInput)
	}

	unit := model.UnitNone
	if input.Unit != "" {
		unit = model.TargetUnit(input.Unit)
		if !unit.IsValid() {
			return model.Habit{}, fmt.Errorf("%w: invalid unit %q", ErrInvalidInput, input.Unit)
		}
	}
	frequency := model.FrequencyDaily
	if input.Frequency != "" {
		frequency = model.HabitFrequency(input.Frequency)
		if !frequency.IsValid() {
			return model.Habit{}, fmt.Errorf("%w: frequency must be 'daily' or 'weekly'", ErrInvalidInput)
		}
	}
	milestoneDays := input.MaxCompletionDays
	if milestoneDays == 0 {
		milestoneDays = model.DefaultMilestoneDays
	}
	if milestoneDays < 0 {
		return model.Habit{}, fmt.Errorf("%w: max completion days must be positive", ErrInvalidInput)
	}

	habit := model.Habit{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             input.Title,
		Description:       input.Description,
		TargetValue:       input.TargetValue,
		Unit:              unit,
		Frequency:         frequency,
		MaxCompletionDays: milestoneDays,
		ColorCode:         input.ColorCode,
	}

	created, err := s.repo.Create(ctx, habit)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	return created, nil
}

func (s *HabitService) GetByID(ctx context.Context, userID, habitID string) (model.Habit, error) {
	habit, err := s.repo.GetByID(ctx, userID, habitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Habit{}, ErrNotFound
		}
		return model.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

// List returns the user's habits. With activeOnly, terminated habits are
// excluded; they remain reachable by ID for historical views.
func (s *HabitService) List(ctx context.Context, userID string, activeOnly bool) ([]model.Habit, error) {
	habits, err := s.repo.List(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) Update(ctx context.Context, userID, habitID string, input UpdateHabitInput) (model.Habit, error) {
	existing, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Habit{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.TargetValue != nil {
		if *input.TargetValue <= 0 {
			return model.Habit{}, fmt.Errorf("%w: target value must be positive", ErrInvalidInput)
		}
		existing.TargetValue = *input.TargetValue
	}
	if input.Unit != nil {
		unit := model.TargetUnit(*input.Unit)
		if !unit.IsValid() {
			return model.Habit{}, fmt.Errorf("%w: invalid unit %q", ErrInvalidInput, *input.Unit)
		}
		existing.Unit = unit
	}
	if input.Frequency != nil {
		frequency := model.HabitFrequency(*input.Frequency)
		if !frequency.IsValid() {
			return model.Habit{}, fmt.Errorf("%w: frequency must be 'daily' or 'weekly'", ErrInvalidInput)
		}
		existing.Frequency = frequency
	}
	if input.MaxCompletionDays != nil {
		if *input.MaxCompletionDays <= 0 {
			return model.Habit{}, fmt.Errorf("%w: max completion days must be positive", ErrInvalidInput)
		}
		existing.MaxCompletionDays = *input.MaxCompletionDays
	}
	if input.ColorCode != nil {
		existing.ColorCode = *input.ColorCode
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return updated, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	if err := s.repo.Delete(ctx, userID, habitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// CompleteToday records today's value (defaulting to the habit's target) and
// persists the single per-day entry. Repeat calls on the same day overwrite.
func (s *HabitService) CompleteToday(ctx context.Context, userID, habitID string, value *float64) (model.Habit, error) {
	if value != nil && *value < 0 {
		return model.Habit{}, fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
	}

	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}
	if habit.IsTerminated {
		return model.Habit{}, fmt.Errorf("%w: habit is terminated", ErrInvalidInput)
	}

	entry := s.engine.CompleteToday(&habit, value)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	saved, err := s.repo.UpsertEntry(ctx, *entry)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to save habit entry: %w", err)
	}
	*entry = saved
	return habit, nil
}

// UncompleteToday removes today's entry entirely. Nothing to remove is fine.
func (s *HabitService) UncompleteToday(ctx context.Context, userID, habitID string) (model.Habit, error) {
	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}

	if s.engine.UncompleteToday(&habit) {
		if err := s.repo.DeleteEntryByDay(ctx, habit.ID, startOfToday(s.now)); err != nil {
			return model.Habit{}, fmt.Errorf("failed to remove habit entry: %w", err)
		}
	}
	return habit, nil
}

// Terminate retires the habit for good.
func (s *HabitService) Terminate(ctx context.Context, userID, habitID string) (model.Habit, error) {
	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}

	s.engine.Terminate(&habit)
	updated, err := s.repo.Update(ctx, habit)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to terminate habit: %w", err)
	}
	return updated, nil
}

// MarkMilestoneShown records that the milestone celebration was surfaced,
// switching JustHitMilestone off permanently.
func (s *HabitService) MarkMilestoneShown(ctx context.Context, userID, habitID string) (model.Habit, error) {
	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}

	s.engine.MarkMilestoneShown(&habit)
	updated, err := s.repo.Update(ctx, habit)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return updated, nil
}

// PauseToday flags the habit as paused for the current calendar day, so the
// day does not count as missed. The flag expires with the day.
func (s *HabitService) PauseToday(ctx context.Context, userID, habitID string) error {
	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if err := s.pauses.SetPaused(ctx, habit.ID, s.now()); err != nil {
		return fmt.Errorf("failed to pause habit: %w", err)
	}
	return nil
}

// Stats computes the derived view of a habit, overlaying today's pause flag.
func (s *HabitService) Stats(ctx context.Context, userID, habitID string) (model.HabitStats, error) {
	habit, err := s.GetByID(ctx, userID, habitID)
	if err != nil {
		return model.HabitStats{}, err
	}

	stats := s.engine.Stats(&habit)
	paused, err := s.pauses.IsPaused(ctx, habit.ID, s.now())
	if err != nil {
		return model.HabitStats{}, fmt.Errorf("failed to check pause flag: %w", err)
	}
	stats.PausedToday = paused
	return stats, nil
}

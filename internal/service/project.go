package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/momentum-api/internal/model"
	"github.com/jaekwang-park/momentum-api/internal/progress"
	"github.com/jaekwang-park/momentum-api/internal/repository"
)

// parseDate parses an RFC3339 string into *time.Time. Returns nil for nil input.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s format, expected RFC3339", ErrInvalidInput, field)
	}
	return &t, nil
}

type GoalInput struct {
	Title       string
	TargetDate  string // RFC3339
	Priority    string
	TargetValue *float64
	TargetUnit  string
}

type CreateProjectInput struct {
	Title       string
	Description string
	Subject     string
	ColorCode   string
	Deadline    *string // RFC3339
	Goals       []GoalInput
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	Subject     *string
	ColorCode   *string
	Deadline    *string
}

type UpdateGoalInput struct {
	Title       *string
	TargetDate  *string
	SortOrder   *int
	Priority    *string
	TargetValue *float64
	TargetUnit  *string
}

type ProjectService struct {
	repo   repository.ProjectRepository
	engine *progress.Engine
}

func NewProjectService(repo repository.ProjectRepository, engine *progress.Engine) *ProjectService {
	return &ProjectService{repo: repo, engine: engine}
}

// buildGoal validates one goal input and assembles the entity. Entity
// invariants (non-empty title, parseable date, known enum values) are
// enforced here, at the construction boundary; the engine never validates.
func buildGoal(projectID string, sortOrder int, in GoalInput) (model.Goal, error) {
	if in.Title == "" {
		return model.Goal{}, fmt.Errorf("%w: goal title is required", ErrInvalidInput)
	}
	targetDate, err := parseDate("target_date", &in.TargetDate)
	if err != nil {
		return model.Goal{}, err
	}

	priority := model.PriorityNone
	if in.Priority != "" {
		priority = model.Priority(in.Priority)
		if !priority.IsValid() {
			return model.Goal{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, in.Priority)
		}
	}
	unit := model.UnitNone
	if in.TargetUnit != "" {
		unit = model.TargetUnit(in.TargetUnit)
		if !unit.IsValid() {
			return model.Goal{}, fmt.Errorf("%w: invalid target unit %q", ErrInvalidInput, in.TargetUnit)
		}
	}
	if in.TargetValue != nil && *in.TargetValue < 0 {
		return model.Goal{}, fmt.Errorf("%w: target value must not be negative", ErrInvalidInput)
	}

	return model.Goal{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       in.Title,
		TargetDate:  *targetDate,
		SortOrder:   sortOrder,
		Priority:    priority,
		TargetValue: in.TargetValue,
		TargetUnit:  unit,
	}, nil
}

func (s *ProjectService) Create(ctx context.Context, userID string, input CreateProjectInput) (model.Project, error) {
	if input.Title == "" {
		return model.Project{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	deadline, err := parseDate("deadline", input.Deadline)
	if err != nil {
		return model.Project{}, err
	}

	project := model.Project{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Subject:     input.Subject,
		ColorCode:   input.ColorCode,
		Deadline:    deadline,
		Goals:       []model.Goal{},
	}

	for i, gi := range input.Goals {
		goal, err := buildGoal(project.ID, i, gi)
		if err != nil {
			return model.Project{}, err
		}
		project.Goals = append(project.Goals, goal)
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

func (s *ProjectService) GetByID(ctx context.Context, userID, projectID string) (model.Project, error) {
	project, err := s.repo.GetByID(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, ErrNotFound
		}
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID string, input UpdateProjectInput) (model.Project, error) {
	existing, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return model.Project{}, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Project{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Subject != nil {
		existing.Subject = *input.Subject
	}
	if input.ColorCode != nil {
		existing.ColorCode = *input.ColorCode
	}
	if input.Deadline != nil {
		deadline, err := parseDate("deadline", input.Deadline)
		if err != nil {
			return model.Project{}, err
		}
		existing.Deadline = deadline
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	if err := s.repo.Delete(ctx, userID, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) AddGoal(ctx context.Context, userID, projectID string, input GoalInput) (model.Goal, error) {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return model.Goal{}, err
	}

	goal, err := buildGoal(project.ID, len(project.Goals), input)
	if err != nil {
		return model.Goal{}, err
	}

	created, err := s.repo.AddGoal(ctx, goal)
	if err != nil {
		return model.Goal{}, fmt.Errorf("failed to add goal: %w", err)
	}

	// Adding an incomplete goal to a completed project reopens it.
	if project.IsCompleted {
		project.IsCompleted = false
		project.CompletedDate = nil
		if err := s.repo.SaveCompletion(ctx, project); err != nil {
			return model.Goal{}, fmt.Errorf("failed to reopen project: %w", err)
		}
	}
	return created, nil
}

func (s *ProjectService) UpdateGoal(ctx context.Context, userID, projectID, goalID string, input UpdateGoalInput) (model.Goal, error) {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return model.Goal{}, err
	}

	var existing *model.Goal
	for i := range project.Goals {
		if project.Goals[i].ID == goalID {
			existing = &project.Goals[i]
			break
		}
	}
	if existing == nil {
		return model.Goal{}, ErrNotFound
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Goal{}, fmt.Errorf("%w: goal title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.TargetDate != nil {
		targetDate, err := parseDate("target_date", input.TargetDate)
		if err != nil {
			return model.Goal{}, err
		}
		existing.TargetDate = *targetDate
	}
	if input.SortOrder != nil {
		existing.SortOrder = *input.SortOrder
	}
	if input.Priority != nil {
		priority := model.Priority(*input.Priority)
		if !priority.IsValid() {
			return model.Goal{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, *input.Priority)
		}
		existing.Priority = priority
	}
	if input.TargetValue != nil {
		if *input.TargetValue < 0 {
			return model.Goal{}, fmt.Errorf("%w: target value must not be negative", ErrInvalidInput)
		}
		existing.TargetValue = input.TargetValue
	}
	if input.TargetUnit != nil {
		unit := model.TargetUnit(*input.TargetUnit)
		if !unit.IsValid() {
			return model.Goal{}, fmt.Errorf("%w: invalid target unit %q", ErrInvalidInput, *input.TargetUnit)
		}
		existing.TargetUnit = unit
	}

	updated, err := s.repo.UpdateGoal(ctx, *existing)
	if err != nil {
		return model.Goal{}, fmt.Errorf("failed to update goal: %w", err)
	}
	return updated, nil
}

func (s *ProjectService) RemoveGoal(ctx context.Context, userID, projectID, goalID string) error {
	// Ownership check before touching the goal row.
	if _, err := s.GetByID(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.repo.DeleteGoal(ctx, projectID, goalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove goal: %w", err)
	}
	return nil
}

// ToggleResult carries both sides of a goal toggle so clients can render
// the cascade outcome without a second fetch.
type ToggleResult struct {
	Goal    model.Goal    `json:"goal"`
	Project model.Project `json:"project"`
}

// ToggleGoal flips a goal's completion and cascades to the project, then
// persists both rows in one transaction.
func (s *ProjectService) ToggleGoal(ctx context.Context, userID, projectID, goalID string) (ToggleResult, error) {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return ToggleResult{}, err
	}

	goal := s.engine.ToggleGoal(&project, goalID)
	if goal == nil {
		return ToggleResult{}, ErrNotFound
	}

	if err := s.repo.SaveToggle(ctx, project, *goal); err != nil {
		return ToggleResult{}, fmt.Errorf("failed to save goal toggle: %w", err)
	}
	return ToggleResult{Goal: *goal, Project: project}, nil
}

// MarkCompleted explicitly completes a project with no goals. Projects with
// goals complete only through their goals.
func (s *ProjectService) MarkCompleted(ctx context.Context, userID, projectID string) (model.Project, error) {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return model.Project{}, err
	}

	if !s.engine.CompleteEmptyProject(&project) {
		if project.IsCompleted {
			return project, nil
		}
		return model.Project{}, fmt.Errorf("%w: a project with goals is completed through its goals", ErrInvalidInput)
	}

	if err := s.repo.SaveCompletion(ctx, project); err != nil {
		return model.Project{}, fmt.Errorf("failed to save project completion: %w", err)
	}
	return project, nil
}

// Progress returns the derived progress view of a project.
func (s *ProjectService) Progress(ctx context.Context, userID, projectID string) (model.ProjectProgress, error) {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return model.ProjectProgress{}, err
	}
	return progress.Progress(&project), nil
}

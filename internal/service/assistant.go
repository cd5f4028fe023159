package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

// AssistantService backs the language-model tool handlers. Tools address
// entities by title, so every operation first resolves a case-insensitive
// substring match against the user's collections and must land on exactly
// one entity: zero matches is ErrNotFound, two or more is ErrAmbiguous.
// The resolved entity is then handed to the regular services; no title
// lookup happens below this layer.
type AssistantService struct {
	projects *ProjectService
	habits   *HabitService
}

func NewAssistantService(projects *ProjectService, habits *HabitService) *AssistantService {
	return &AssistantService{projects: projects, habits: habits}
}

type CompleteGoalByTitleInput struct {
	ProjectTitle string // optional: narrows the goal search to one project
	GoalTitle    string
}

type CompleteHabitByTitleInput struct {
	HabitTitle string
	Value      *float64
}

type CreateProjectToolInput struct {
	Title       string
	Description string
	Subject     string
	ColorCode   string
	Deadline    *string
	Goals       []GoalInput
}

// HabitSummary is the assistant-facing digest of one habit, with values
// preformatted in the habit's unit.
type HabitSummary struct {
	Title            string  `json:"title"`
	Target           string  `json:"target"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	CompletedDays    int     `json:"completed_days"`
	CompletionRate   float64 `json:"completion_rate"`
	IsCompletedToday bool    `json:"is_completed_today"`
	JustHitMilestone bool    `json:"just_hit_milestone"`
	PausedToday      bool    `json:"paused_today"`
}

func titleMatches(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// CompleteGoalByTitle resolves a goal by fuzzy title, optionally scoped to a
// fuzzy-matched project, and toggles it complete. Already-completed goals
// are not toggled again; they are excluded from resolution so "complete X"
// never un-completes.
func (s *AssistantService) CompleteGoalByTitle(ctx context.Context, userID string, input CompleteGoalByTitleInput) (ToggleResult, error) {
	if input.GoalTitle == "" {
		return ToggleResult{}, fmt.Errorf("%w: goal_title is required", ErrInvalidInput)
	}

	projects, err := s.projects.List(ctx, userID)
	if err != nil {
		return ToggleResult{}, err
	}

	if input.ProjectTitle != "" {
		scoped := projects[:0:0]
		for _, p := range projects {
			if titleMatches(p.Title, input.ProjectTitle) {
				scoped = append(scoped, p)
			}
		}
		if len(scoped) == 0 {
			return ToggleResult{}, fmt.Errorf("%w: no project matches %q", ErrNotFound, input.ProjectTitle)
		}
		if len(scoped) > 1 {
			return ToggleResult{}, fmt.Errorf("%w: %d projects match %q", ErrAmbiguous, len(scoped), input.ProjectTitle)
		}
		projects = scoped
	}

	var matchProject *model.Project
	var matchGoal *model.Goal
	matches := 0
	for i := range projects {
		for j := range projects[i].Goals {
			g := &projects[i].Goals[j]
			if g.IsCompleted || !titleMatches(g.Title, input.GoalTitle) {
				continue
			}
			matches++
			matchProject = &projects[i]
			matchGoal = g
		}
	}
	if matches == 0 {
		return ToggleResult{}, fmt.Errorf("%w: no incomplete goal matches %q", ErrNotFound, input.GoalTitle)
	}
	if matches > 1 {
		return ToggleResult{}, fmt.Errorf("%w: %d goals match %q", ErrAmbiguous, matches, input.GoalTitle)
	}

	return s.projects.ToggleGoal(ctx, userID, matchProject.ID, matchGoal.ID)
}

// CompleteHabitByTitle resolves an active habit by fuzzy title and records
// today's completion.
func (s *AssistantService) CompleteHabitByTitle(ctx context.Context, userID string, input CompleteHabitByTitleInput) (model.Habit, error) {
	habit, err := s.resolveHabit(ctx, userID, input.HabitTitle)
	if err != nil {
		return model.Habit{}, err
	}
	return s.habits.CompleteToday(ctx, userID, habit.ID, input.Value)
}

// CreateProject creates a project with its goals in one tool call.
func (s *AssistantService) CreateProject(ctx context.Context, userID string, input CreateProjectToolInput) (model.Project, error) {
	return s.projects.Create(ctx, userID, CreateProjectInput{
		Title:       input.Title,
		Description: input.Description,
		Subject:     input.Subject,
		ColorCode:   input.ColorCode,
		Deadline:    input.Deadline,
		Goals:       input.Goals,
	})
}

// SummarizeHabit resolves a habit by fuzzy title and returns its digest.
func (s *AssistantService) SummarizeHabit(ctx context.Context, userID, habitTitle string) (HabitSummary, error) {
	habit, err := s.resolveHabit(ctx, userID, habitTitle)
	if err != nil {
		return HabitSummary{}, err
	}

	stats, err := s.habits.Stats(ctx, userID, habit.ID)
	if err != nil {
		return HabitSummary{}, err
	}

	return HabitSummary{
		Title:            habit.Title,
		Target:           habit.Unit.Format(habit.TargetValue),
		CurrentStreak:    stats.CurrentStreak,
		BestStreak:       stats.BestStreak,
		CompletedDays:    stats.CompletedDays,
		CompletionRate:   stats.CompletionRate,
		IsCompletedToday: stats.IsCompletedToday,
		JustHitMilestone: stats.JustHitMilestone,
		PausedToday:      stats.PausedToday,
	}, nil
}

func (s *AssistantService) resolveHabit(ctx context.Context, userID, title string) (model.Habit, error) {
	if title == "" {
		return model.Habit{}, fmt.Errorf("%w: habit_title is required", ErrInvalidInput)
	}

	habits, err := s.habits.List(ctx, userID, true)
	if err != nil {
		return model.Habit{}, err
	}

	var match *model.Habit
	matches := 0
	for i := range habits {
		if titleMatches(habits[i].Title, title) {
			matches++
			match = &habits[i]
		}
	}
	if matches == 0 {
		return model.Habit{}, fmt.Errorf("%w: no habit matches %q", ErrNotFound, title)
	}
	if matches > 1 {
		return model.Habit{}, fmt.Errorf("%w: %d habits match %q", ErrAmbiguous, matches, title)
	}
	return *match, nil
}

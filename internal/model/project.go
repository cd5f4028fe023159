package model

import "time"

// Goal is a milestone inside a project. A goal belongs to exactly one
// project and holds only the project's ID as a back-reference; the project
// owns the goal's lifetime.
type Goal struct {
	ID            string      `json:"id"`
	ProjectID     string      `json:"project_id"`
	Title         string      `json:"title"`
	TargetDate    time.Time   `json:"target_date"`
	IsCompleted   bool        `json:"is_completed"`
	CompletedDate *time.Time  `json:"completed_date,omitempty"`
	SortOrder     int         `json:"sort_order"`
	Priority      Priority    `json:"priority"`
	TargetValue   *float64    `json:"target_value,omitempty"`
	TargetUnit    TargetUnit  `json:"target_unit"`
}

// Project owns an ordered collection of goals. Completion is derived from
// the goals except for the explicit zero-goal case.
// Invariant: CompletedDate is non-nil iff IsCompleted.
type Project struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject"`
	ColorCode     string     `json:"color_code"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Goals         []Goal     `json:"goals"`
}

// ProjectProgress is the derived, read-only progress view of a project.
type ProjectProgress struct {
	Percentage     float64 `json:"percentage"`
	CompletedGoals int     `json:"completed_goals"`
	TotalGoals     int     `json:"total_goals"`
	NextGoal       *Goal   `json:"next_goal,omitempty"`
}

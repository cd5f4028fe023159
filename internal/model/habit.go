package model

import "time"

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
)

func (f HabitFrequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// DefaultMilestoneDays is the default completed-day count after which a
// habit's milestone celebration is due.
const DefaultMilestoneDays = 60

// HabitEntry is a dated record of a value contributed toward a habit's
// daily target. Date carries calendar-day granularity (local midnight);
// a habit has at most one entry per calendar day.
type HabitEntry struct {
	ID      string    `json:"id"`
	HabitID string    `json:"habit_id"`
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
}

// Habit owns its entries; streaks and completion rate are derived from
// them, never stored.
// Invariant: TerminatedDate is non-nil iff IsTerminated.
type Habit struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	TargetValue       float64        `json:"target_value"`
	Unit              TargetUnit     `json:"unit"`
	Frequency         HabitFrequency `json:"frequency"`
	MaxCompletionDays int            `json:"max_completion_days"`
	MilestoneShown    bool           `json:"milestone_shown"`
	IsTerminated      bool           `json:"is_terminated"`
	TerminatedDate    *time.Time     `json:"terminated_date,omitempty"`
	ColorCode         string         `json:"color_code"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Entries           []HabitEntry   `json:"entries,omitempty"`
}

// HabitStats is the derived, read-only progress view of a habit.
type HabitStats struct {
	CompletedDays       int     `json:"completed_days"`
	CurrentStreak       int     `json:"current_streak"`
	BestStreak          int     `json:"best_streak"`
	CompletionRate      float64 `json:"completion_rate"`
	IsCompletedToday    bool    `json:"is_completed_today"`
	HasReachedMilestone bool    `json:"has_reached_milestone"`
	JustHitMilestone    bool    `json:"just_hit_milestone"`
	PausedToday         bool    `json:"paused_today"`
}

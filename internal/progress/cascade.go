package progress

import "github.com/jaekwang-park/momentum-api/internal/model"

// ToggleGoal flips completion on the goal with the given ID and cascades the
// change to the project. Un-completing a goal always un-completes a completed
// project; completing the last incomplete goal completes the project.
// Returns the toggled goal, or nil if no goal matches.
//
// A project and its goals are one mutation unit: the all-goals-complete check
// and the project write are not atomic across steps, so the caller must hold
// exclusive access to the project for the duration of the call.
func (e *Engine) ToggleGoal(p *model.Project, goalID string) *model.Goal {
	var goal *model.Goal
	for i := range p.Goals {
		if p.Goals[i].ID == goalID {
			goal = &p.Goals[i]
			break
		}
	}
	if goal == nil {
		return nil
	}

	now := e.now()
	goal.IsCompleted = !goal.IsCompleted
	if goal.IsCompleted {
		goal.CompletedDate = &now
	} else {
		goal.CompletedDate = nil
	}

	if !goal.IsCompleted {
		if p.IsCompleted {
			p.IsCompleted = false
			p.CompletedDate = nil
		}
		return goal
	}

	// A project with zero goals is never auto-completed here, and the toggled
	// goal guarantees at least one.
	if !p.IsCompleted && allGoalsCompleted(p) {
		p.IsCompleted = true
		p.CompletedDate = &now
	}
	return goal
}

// CompleteEmptyProject explicitly completes a project that has no goals.
// Projects with goals complete only through their goals; returns false
// without mutating in that case, or when already completed.
func (e *Engine) CompleteEmptyProject(p *model.Project) bool {
	if len(p.Goals) > 0 || p.IsCompleted {
		return false
	}
	now := e.now()
	p.IsCompleted = true
	p.CompletedDate = &now
	return true
}

func allGoalsCompleted(p *model.Project) bool {
	for i := range p.Goals {
		if !p.Goals[i].IsCompleted {
			return false
		}
	}
	return len(p.Goals) > 0
}

// NextGoal selects the incomplete goal with the earliest target date, ties
// broken by ascending sort order. Returns nil when every goal is complete
// or the project has none. Callers driving a "complete next" gesture must
// re-derive this before each toggle.
func NextGoal(p *model.Project) *model.Goal {
	var next *model.Goal
	for i := range p.Goals {
		g := &p.Goals[i]
		if g.IsCompleted {
			continue
		}
		if next == nil || earlier(g, next) {
			next = g
		}
	}
	return next
}

func earlier(a, b *model.Goal) bool {
	if !a.TargetDate.Equal(b.TargetDate) {
		return a.TargetDate.Before(b.TargetDate)
	}
	return a.SortOrder < b.SortOrder
}

// ProgressPercentage is 100 * completed / total over the project's goals,
// or 0 for a project with no goals. The value is not rounded; display
// rounding is the client's concern.
func ProgressPercentage(p *model.Project) float64 {
	if len(p.Goals) == 0 {
		return 0
	}
	return 100 * float64(completedGoals(p)) / float64(len(p.Goals))
}

func completedGoals(p *model.Project) int {
	n := 0
	for i := range p.Goals {
		if p.Goals[i].IsCompleted {
			n++
		}
	}
	return n
}

// Progress assembles the derived progress view of a project. The returned
// NextGoal is a copy, safe to hold across later mutations.
func Progress(p *model.Project) model.ProjectProgress {
	pp := model.ProjectProgress{
		Percentage:     ProgressPercentage(p),
		CompletedGoals: completedGoals(p),
		TotalGoals:     len(p.Goals),
	}
	if next := NextGoal(p); next != nil {
		g := *next
		pp.NextGoal = &g
	}
	return pp
}

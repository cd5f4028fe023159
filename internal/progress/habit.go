package progress

import (
	"sort"
	"time"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

// CompleteToday records today's value for the habit, overwriting any existing
// entry for today so a habit never carries more than one entry per calendar
// day. A nil value defaults to the habit's target value (a plain checkbox
// completion). Returns a pointer to the created or updated entry; a new entry
// has an empty ID for the caller to assign.
func (e *Engine) CompleteToday(h *model.Habit, value *float64) *model.HabitEntry {
	v := h.TargetValue
	if value != nil {
		v = *value
	}
	now := e.now()

	for i := range h.Entries {
		if sameDay(now, h.Entries[i].Date) {
			h.Entries[i].Value = v
			return &h.Entries[i]
		}
	}

	h.Entries = append(h.Entries, model.HabitEntry{
		HabitID: h.ID,
		Date:    startOfDay(now),
		Value:   v,
	})
	return &h.Entries[len(h.Entries)-1]
}

// UncompleteToday removes today's entry entirely. Reports whether an entry
// was removed; removing nothing is not an error.
func (e *Engine) UncompleteToday(h *model.Habit) bool {
	now := e.now()
	for i := range h.Entries {
		if sameDay(now, h.Entries[i].Date) {
			h.Entries = append(h.Entries[:i], h.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Terminate retires the habit. One-way: there is no un-terminate.
func (e *Engine) Terminate(h *model.Habit) {
	if h.IsTerminated {
		return
	}
	now := e.now()
	h.IsTerminated = true
	h.TerminatedDate = &now
}

// MarkMilestoneShown records that the milestone celebration was surfaced.
// The flag never resets, so JustHitMilestone fires at most once per habit
// even if the completed-day count later dips and crosses the threshold again.
func (e *Engine) MarkMilestoneShown(h *model.Habit) {
	h.MilestoneShown = true
}

// qualifyingDays returns the distinct calendar days with an entry meeting
// the habit's target, sorted ascending and normalized to midnight in the
// clock's location so days compare with ==. The day is read from the entry's
// own location: reloaded entries carry midnight-UTC dates, and the calendar
// day they name must survive a clock in any zone. Deduplicating on day
// guards the derived counts against any double-entry bug upstream.
func (e *Engine) qualifyingDays(h *model.Habit) []time.Time {
	loc := e.now().Location()
	seen := make(map[time.Time]bool, len(h.Entries))
	days := make([]time.Time, 0, len(h.Entries))
	for i := range h.Entries {
		if h.Entries[i].Value < h.TargetValue {
			continue
		}
		y, m, dd := h.Entries[i].Date.Date()
		d := time.Date(y, m, dd, 0, 0, 0, 0, loc)
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// CompletedDaysCount is the number of distinct calendar days with a
// qualifying entry.
func (e *Engine) CompletedDaysCount(h *model.Habit) int {
	return len(e.qualifyingDays(h))
}

// IsCompletedToday reports whether a qualifying entry exists for today.
func (e *Engine) IsCompletedToday(h *model.Habit) bool {
	now := e.now()
	for i := range h.Entries {
		if h.Entries[i].Value >= h.TargetValue && sameDay(now, h.Entries[i].Date) {
			return true
		}
	}
	return false
}

// CurrentStreak counts consecutive qualifying days walking backward from
// today. When today does not qualify yet, the walk starts at yesterday, so
// an unfinished today never reads as a broken streak before the day ends.
func (e *Engine) CurrentStreak(h *model.Habit) int {
	qualified := make(map[time.Time]bool)
	for _, d := range e.qualifyingDays(h) {
		qualified[d] = true
	}

	day := startOfDay(e.now())
	if !qualified[day] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for qualified[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// BestStreak is the longest run of consecutive qualifying calendar days in
// the habit's entry history, 0 when no day qualifies.
func (e *Engine) BestStreak(h *model.Habit) int {
	days := e.qualifyingDays(h)
	if len(days) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if sameDay(days[i-1].AddDate(0, 0, 1), days[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// CompletionRate is completed days over days since creation, as a
// percentage. A habit created today (or with a creation date in the future,
// from a clock skew) reads as 100% once any day qualifies.
func (e *Engine) CompletionRate(h *model.Habit) float64 {
	completed := e.CompletedDaysCount(h)
	now := e.now()
	elapsed := daysBetween(h.CreatedAt.In(now.Location()), now)
	if elapsed <= 0 {
		if completed > 0 {
			return 100
		}
		elapsed = 0
	}
	return float64(completed) / float64(elapsed+1) * 100
}

// HasReachedMilestone reports whether the completed-day count has reached
// the habit's milestone threshold.
func (e *Engine) HasReachedMilestone(h *model.Habit) bool {
	return e.CompletedDaysCount(h) >= h.MaxCompletionDays
}

// JustHitMilestone is the one-shot transition detector: true only while the
// count sits exactly at the threshold and the celebration has not yet been
// shown.
func (e *Engine) JustHitMilestone(h *model.Habit) bool {
	return e.CompletedDaysCount(h) == h.MaxCompletionDays && !h.MilestoneShown
}

// Stats assembles the full derived view of a habit. PausedToday is left
// false; the caller overlays it from the pause store.
func (e *Engine) Stats(h *model.Habit) model.HabitStats {
	completed := e.CompletedDaysCount(h)
	return model.HabitStats{
		CompletedDays:       completed,
		CurrentStreak:       e.CurrentStreak(h),
		BestStreak:          e.BestStreak(h),
		CompletionRate:      e.CompletionRate(h),
		IsCompletedToday:    e.IsCompletedToday(h),
		HasReachedMilestone: completed >= h.MaxCompletionDays,
		JustHitMilestone:    completed == h.MaxCompletionDays && !h.MilestoneShown,
	}
}

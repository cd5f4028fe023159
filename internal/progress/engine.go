// Package progress implements the completion and streak rules for projects,
// goals and habits. Every operation here is a pure or in-memory-mutating
// function over aggregates the caller has already loaded; the package does
// no I/O and callers must serialize mutations to a given aggregate.
package progress

import "time"

// Clock supplies the current time. Day-boundary logic uses the clock's
// local calendar days, so tests can pin both the instant and the zone.
type Clock func() time.Time

type Engine struct {
	now Clock
}

// NewEngine returns an engine using the given clock, or time.Now when nil.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// startOfDay truncates t to midnight in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay reports whether a and b fall on the same calendar day. Each value
// is read in its own location: entry dates are date-granular (a DATE column
// scans back as midnight UTC), and converting that instant into another zone
// would shift the day it names.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween counts whole calendar days from a to b, each read in its own
// location. Midnights are rebuilt in UTC so a DST transition never yields a
// short day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

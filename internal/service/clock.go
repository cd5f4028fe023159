package service

import (
	"time"

	"github.com/jaekwang-park/momentum-api/internal/progress"
)

func defaultClock() progress.Clock {
	return time.Now
}

// startOfToday is the clock's current calendar day at local midnight,
// matching the granularity habit entries are stored with.
func startOfToday(now progress.Clock) time.Time {
	t := now()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

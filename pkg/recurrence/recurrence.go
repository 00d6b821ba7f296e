package recurrence

import (
	"time"

	"github.com/lunoa/daybreak/pkg/models"
)

// ShouldFireNow reports whether the alarm is due at the current minute.
// A one-shot alarm (no weekday enabled) is due any day at its wall-clock
// time; a repeating alarm additionally requires today's weekday bit.
func ShouldFireNow(a models.Alarm, now time.Time) bool {
	if !a.Enabled {
		return false
	}
	if now.Hour() != a.Hour || now.Minute() != a.Minute {
		return false
	}
	if a.IsOneShot() {
		return true
	}
	return a.Days[int(now.Weekday())]
}

// NextOccurrence computes the next instant the alarm is due, strictly
// after now. A candidate exactly equal to now is not eligible, so an
// alarm that just fired does not report itself as the next occurrence.
// Returns false for disabled alarms.
func NextOccurrence(a models.Alarm, now time.Time) (time.Time, bool) {
	if !a.Enabled {
		return time.Time{}, false
	}

	today := candidateOn(a, now, 0)

	if a.IsOneShot() {
		if today.After(now) {
			return today, true
		}
		return candidateOn(a, now, 1), true
	}

	for offset := 0; offset < 7; offset++ {
		c := candidateOn(a, now, offset)
		if a.Days[int(c.Weekday())] && c.After(now) {
			return c, true
		}
	}

	// Every enabled weekday in the current window has already passed;
	// only possible when today is the sole enabled day and its time is
	// at or before now. Wrap to the same weekday one week out.
	return candidateOn(a, now, 7), true
}

// Soonest returns the alarm with the earliest next occurrence across the
// list, for countdown display and background wake scheduling. Disabled
// alarms never participate.
func Soonest(alarms []models.Alarm, now time.Time) (models.Alarm, time.Time, bool) {
	var (
		best   models.Alarm
		bestAt time.Time
		found  bool
	)
	for _, a := range alarms {
		at, ok := NextOccurrence(a, now)
		if !ok {
			continue
		}
		if !found || at.Before(bestAt) {
			best, bestAt, found = a, at, true
		}
	}
	return best, bestAt, found
}

// Until reports how long until the alarm next fires, for countdown
// display next to the alarm list.
func Until(a models.Alarm, now time.Time) (time.Duration, bool) {
	at, ok := NextOccurrence(a, now)
	if !ok {
		return 0, false
	}
	return at.Sub(now), true
}

// candidateOn builds the alarm's wall-clock instant offset days from now,
// in now's location.
func candidateOn(a models.Alarm, now time.Time, offset int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+offset,
		a.Hour, a.Minute, 0, 0, now.Location())
}

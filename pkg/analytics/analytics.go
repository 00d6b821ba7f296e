// Package analytics derives sleep-quality statistics from the recorded
// sleep history. Everything here is a pure function over an entry slice;
// the history itself lives in the store.
package analytics

import (
	"math"
	"time"

	"github.com/lunoa/daybreak/pkg/models"
)

// targetSleepMinutes is the sleep length the wake suggestion aims for.
const targetSleepMinutes = 8 * 60

// DayDuration is one day of the weekly overview.
type DayDuration struct {
	Date     time.Time
	Minutes  int
	Recorded bool
}

// WeeklyDurations buckets the history into the last 7 local calendar days,
// today inclusive, oldest first. A day with no entry reports zero minutes.
// When several entries wake on the same day, the later one wins.
func WeeklyDurations(entries []models.SleepEntry, now time.Time) [7]DayDuration {
	var week [7]DayDuration

	for i := 0; i < 7; i++ {
		day := time.Date(now.Year(), now.Month(), now.Day()-(6-i), 0, 0, 0, 0, now.Location())
		week[i].Date = day

		for _, e := range entries {
			w := e.WakeTime.In(now.Location())
			if w.Year() == day.Year() && w.YearDay() == day.YearDay() {
				week[i].Minutes = e.DurationMinutes
				week[i].Recorded = true
			}
		}
	}
	return week
}

// Stats are aggregates over the full history.
type Stats struct {
	AverageMinutes int
	Best           models.SleepEntry
	Worst          models.SleepEntry
	// AvgBedtimeMinute and AvgWakeMinute are minutes of day [0,1440).
	AvgBedtimeMinute int
	AvgWakeMinute    int
}

// Aggregate computes stats over the history. Returns false when the
// history is empty. Duration ties for best/worst resolve to the entry
// later in iteration order, which for the append-only history is the
// later wake time.
func Aggregate(entries []models.SleepEntry) (Stats, bool) {
	if len(entries) == 0 {
		return Stats{}, false
	}

	var (
		total   int
		bedSum  float64
		wakeSum float64
		best    = entries[0]
		worst   = entries[0]
	)

	for _, e := range entries {
		total += e.DurationMinutes
		bedSum += float64(normalizedBedtimeMinute(e.Bedtime))
		wakeSum += float64(minuteOfDay(e.WakeTime))

		if e.DurationMinutes >= best.DurationMinutes {
			best = e
		}
		if e.DurationMinutes <= worst.DurationMinutes {
			worst = e
		}
	}

	n := float64(len(entries))
	return Stats{
		AverageMinutes:   int(math.Round(float64(total) / n)),
		Best:             best,
		Worst:            worst,
		AvgBedtimeMinute: int(math.Round(bedSum/n)) % minutesPerDay,
		AvgWakeMinute:    int(math.Round(wakeSum/n)) % minutesPerDay,
	}, true
}

// OptimalWake suggests a wake time eight hours after the average bedtime
// of the most recent 7 entries, minute rounded to the nearest 5. It
// requires at least 7 entries; below that it reports no suggestion at
// all rather than a low-confidence one.
func OptimalWake(entries []models.SleepEntry) (hour, minute int, ok bool) {
	if len(entries) < 7 {
		return 0, 0, false
	}
	recent := entries[len(entries)-7:]

	var bedSum float64
	for _, e := range recent {
		bedSum += float64(normalizedBedtimeMinute(e.Bedtime))
	}
	avgBed := int(math.Round(bedSum/7)) % minutesPerDay

	wake := (avgBed + targetSleepMinutes) % minutesPerDay
	hour = wake / 60
	minute = int(math.Round(float64(wake%60)/5)) * 5
	if minute == 60 {
		minute = 0
		hour = (hour + 1) % 24
	}
	return hour, minute, true
}

const minutesPerDay = 24 * 60

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// normalizedBedtimeMinute treats pre-noon bedtimes as "after midnight" by
// pushing them a full day forward, so averaging clock times that straddle
// midnight does not get dragged toward noon.
func normalizedBedtimeMinute(t time.Time) int {
	m := minuteOfDay(t)
	if m < 12*60 {
		m += minutesPerDay
	}
	return m
}

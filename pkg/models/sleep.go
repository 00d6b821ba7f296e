package models

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInterval is returned when a sleep entry's bedtime is not
// strictly before its wake time.
var ErrInvalidInterval = errors.New("bedtime must be before wake time")

// SleepEntry is one recorded sleep interval. Entries are append-only:
// created once per successful alarm dismissal, never mutated.
type SleepEntry struct {
	ID       string    `json:"id"`
	Bedtime  time.Time `json:"bedtime"`
	WakeTime time.Time `json:"wake_time"`
	// DurationMinutes is stored redundantly for fast aggregation.
	DurationMinutes int `json:"sleep_duration"`
}

// NewSleepEntry builds an entry from a bed/wake pair, enforcing
// bedtime < wakeTime and computing the rounded duration in minutes.
func NewSleepEntry(bedtime, wakeTime time.Time) (SleepEntry, error) {
	if !bedtime.Before(wakeTime) {
		return SleepEntry{}, ErrInvalidInterval
	}
	return SleepEntry{
		ID:              uuid.NewString(),
		Bedtime:         bedtime,
		WakeTime:        wakeTime,
		DurationMinutes: int(math.Round(wakeTime.Sub(bedtime).Minutes())),
	}, nil
}

// Settings holds process-wide configuration, loaded at startup and
// persisted on change.
type Settings struct {
	BedtimeReminderEnabled bool `json:"bedtime_reminder_enabled"`
	BedtimeHour            int  `json:"bedtime_hour" validate:"gte=0,lte=23"`
	BedtimeMinute          int  `json:"bedtime_minute" validate:"gte=0,lte=59"`
	AutoStart              bool `json:"auto_start"`
}

// Validate checks field ranges.
func (s *Settings) Validate() error {
	return validate.Struct(s)
}

// DefaultSettings returns the settings used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{
		BedtimeReminderEnabled: false,
		BedtimeHour:            22,
		BedtimeMinute:          30,
	}
}

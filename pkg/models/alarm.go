package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WakeIntensity controls how loud the alert starts.
type WakeIntensity string

const (
	IntensityWhisper   WakeIntensity = "whisper"
	IntensityGentle    WakeIntensity = "gentle"
	IntensityModerate  WakeIntensity = "moderate"
	IntensityEnergetic WakeIntensity = "energetic"
)

// Volume returns the initial playback volume for the intensity.
func (w WakeIntensity) Volume() float64 {
	switch w {
	case IntensityWhisper:
		return 0.3
	case IntensityGentle:
		return 0.5
	case IntensityModerate:
		return 0.75
	case IntensityEnergetic:
		return 1.0
	}
	return 0.75
}

// DismissType selects the mission required to silence an alert.
type DismissType string

const (
	DismissSimple      DismissType = "simple"
	DismissBreathing   DismissType = "breathing"
	DismissAffirmation DismissType = "affirmation"
	DismissMath        DismissType = "math"
	DismissShake       DismissType = "shake"
)

// AlarmSound names one of the bundled alert sounds.
type AlarmSound string

const (
	SoundClassic AlarmSound = "classic"
	SoundChime   AlarmSound = "chime"
	SoundDigital AlarmSound = "digital"
	SoundNature  AlarmSound = "nature"
	SoundZen     AlarmSound = "zen"
)

// SoundProfile is the playback shape of an alarm sound. A nil Pattern means
// continuous playback at the initial volume; otherwise Pattern is a circular
// sequence of millisecond phase durations alternating loud/quiet.
type SoundProfile struct {
	Rate    float64
	Pattern []int
}

// Profile returns the playback rate and loud/quiet pattern for the sound.
func (s AlarmSound) Profile() SoundProfile {
	switch s {
	case SoundClassic:
		return SoundProfile{Rate: 1.0, Pattern: []int{600, 400}}
	case SoundChime:
		return SoundProfile{Rate: 0.9, Pattern: []int{1000, 1500}}
	case SoundDigital:
		return SoundProfile{Rate: 1.2, Pattern: []int{250, 250, 250, 1000}}
	case SoundNature:
		return SoundProfile{Rate: 0.8}
	case SoundZen:
		return SoundProfile{Rate: 0.7, Pattern: []int{2000, 2000}}
	}
	return SoundProfile{Rate: 1.0}
}

// Alarm is one configured wake rule.
type Alarm struct {
	ID            string        `json:"id"`
	Hour          int           `json:"hour" validate:"gte=0,lte=23"`
	Minute        int           `json:"minute" validate:"gte=0,lte=59"`
	Days          [7]bool       `json:"days"` // Sunday=0 .. Saturday=6
	Enabled       bool          `json:"enabled"`
	Label         string        `json:"label"`
	SnoozeMinutes int           `json:"snooze_minutes" validate:"gte=0,lte=120"`
	Intensity     WakeIntensity `json:"wake_intensity" validate:"oneof=whisper gentle moderate energetic"`
	Sound         AlarmSound    `json:"sound" validate:"oneof=classic chime digital nature zen"`
	DismissType   DismissType   `json:"dismiss_type" validate:"oneof=simple breathing affirmation math shake"`
}

// Validate checks field ranges and enum membership.
func (a *Alarm) Validate() error {
	return validate.Struct(a)
}

// IsOneShot reports whether the alarm has no weekday enabled. A one-shot
// alarm fires once and then disables itself.
func (a *Alarm) IsOneShot() bool {
	for _, d := range a.Days {
		if d {
			return false
		}
	}
	return true
}

// RoundToMinute rounds a time down to the nearest minute
func RoundToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

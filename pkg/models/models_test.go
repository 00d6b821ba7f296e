package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoa/daybreak/pkg/models"
)

func validAlarm() models.Alarm {
	return models.Alarm{
		ID:          "a1",
		Hour:        7,
		Minute:      30,
		Enabled:     true,
		Intensity:   models.IntensityGentle,
		Sound:       models.SoundChime,
		DismissType: models.DismissBreathing,
	}
}

func TestAlarmValidate(t *testing.T) {
	a := validAlarm()
	assert.NoError(t, a.Validate())

	bad := validAlarm()
	bad.Minute = 60
	assert.Error(t, bad.Validate())

	bad = validAlarm()
	bad.SnoozeMinutes = -1
	assert.Error(t, bad.Validate())

	bad = validAlarm()
	bad.Intensity = "deafening"
	assert.Error(t, bad.Validate())
}

func TestAlarmIsOneShot(t *testing.T) {
	a := validAlarm()
	assert.True(t, a.IsOneShot())

	a.Days[int(time.Monday)] = true
	assert.False(t, a.IsOneShot())
}

func TestIntensityVolume(t *testing.T) {
	assert.Equal(t, 0.3, models.IntensityWhisper.Volume())
	assert.Equal(t, 0.5, models.IntensityGentle.Volume())
	assert.Equal(t, 0.75, models.IntensityModerate.Volume())
	assert.Equal(t, 1.0, models.IntensityEnergetic.Volume())
	assert.Equal(t, 0.75, models.WakeIntensity("unknown").Volume())
}

func TestSoundProfile(t *testing.T) {
	p := models.SoundDigital.Profile()
	assert.Equal(t, 1.2, p.Rate)
	assert.Equal(t, []int{250, 250, 250, 1000}, p.Pattern)

	assert.Empty(t, models.SoundNature.Profile().Pattern, "nature plays continuously")
}

func TestNewSleepEntryRoundsDuration(t *testing.T) {
	bed := time.Date(2025, 3, 4, 23, 0, 30, 0, time.Local)
	wake := time.Date(2025, 3, 5, 7, 0, 0, 0, time.Local)

	e, err := models.NewSleepEntry(bed, wake)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	// 7h59m30s rounds to the nearest minute.
	assert.Equal(t, 480, e.DurationMinutes)

	_, err = models.NewSleepEntry(wake, bed)
	assert.ErrorIs(t, err, models.ErrInvalidInterval)
}

func TestRoundToMinute(t *testing.T) {
	at := time.Date(2025, 3, 5, 7, 0, 41, 999, time.Local)
	assert.Equal(t, time.Date(2025, 3, 5, 7, 0, 0, 0, time.Local), models.RoundToMinute(at))
}

package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
	"github.com/lunoa/daybreak/pkg/store"
)

func testAlarm() models.Alarm {
	return models.Alarm{
		Hour:        7,
		Minute:      30,
		Enabled:     true,
		Label:       "weekday wake",
		Intensity:   models.IntensityModerate,
		Sound:       models.SoundClassic,
		DismissType: models.DismissMath,
	}
}

func TestAlarmStoreRoundTrip(t *testing.T) {
	kv := store.NewMemKV()
	logger := logging.NewNop()

	as := store.NewAlarmStore(kv, logger)
	added, err := as.Add(testAlarm())
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	// A fresh store over the same backend sees the saved list.
	reloaded := store.NewAlarmStore(kv, logger)
	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, added, list[0])
}

func TestAlarmStoreFileBackend(t *testing.T) {
	kv, err := store.NewFileKV(t.TempDir())
	require.NoError(t, err)
	logger := logging.NewNop()

	as := store.NewAlarmStore(kv, logger)
	added, err := as.Add(testAlarm())
	require.NoError(t, err)

	require.NoError(t, as.SetEnabled(added.ID, false))

	reloaded := store.NewAlarmStore(kv, logger)
	got, ok := reloaded.Get(added.ID)
	require.True(t, ok)
	assert.False(t, got.Enabled)
}

func TestAlarmStoreValidation(t *testing.T) {
	as := store.NewAlarmStore(store.NewMemKV(), logging.NewNop())

	bad := testAlarm()
	bad.Hour = 24
	_, err := as.Add(bad)
	assert.Error(t, err)

	bad = testAlarm()
	bad.DismissType = "yoga"
	_, err = as.Add(bad)
	assert.Error(t, err)

	assert.Empty(t, as.List())
}

func TestAlarmStoreUpdateAndRemove(t *testing.T) {
	as := store.NewAlarmStore(store.NewMemKV(), logging.NewNop())
	added, err := as.Add(testAlarm())
	require.NoError(t, err)

	added.Label = "changed"
	require.NoError(t, as.Update(added))
	got, _ := as.Get(added.ID)
	assert.Equal(t, "changed", got.Label)

	require.NoError(t, as.Remove(added.ID))
	assert.ErrorIs(t, as.Remove(added.ID), store.ErrNotFound)
	assert.ErrorIs(t, as.SetEnabled(added.ID, true), store.ErrNotFound)
}

func TestAlarmStoreCorruptPayloadFallsBack(t *testing.T) {
	kv := store.NewMemKV()
	require.NoError(t, kv.Save("alarms", []byte("{not json")))

	as := store.NewAlarmStore(kv, logging.NewNop())
	assert.Empty(t, as.List())
}

func TestSleepStoreAppendAndOrder(t *testing.T) {
	kv := store.NewMemKV()
	logger := logging.NewNop()
	ss := store.NewSleepStore(kv, logger)

	bed := time.Date(2025, 3, 4, 23, 0, 0, 0, time.Local)
	wake := time.Date(2025, 3, 5, 7, 0, 0, 0, time.Local)

	first, err := ss.Append(bed, wake)
	require.NoError(t, err)
	assert.Equal(t, 480, first.DurationMinutes)

	_, err = ss.Append(bed.AddDate(0, 0, 1), wake.AddDate(0, 0, 1))
	require.NoError(t, err)

	reloaded := store.NewSleepStore(kv, logger)
	entries := reloaded.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, 2, reloaded.Len())
}

func TestSleepStoreRejectsInvertedInterval(t *testing.T) {
	ss := store.NewSleepStore(store.NewMemKV(), logging.NewNop())

	wake := time.Date(2025, 3, 5, 7, 0, 0, 0, time.Local)
	_, err := ss.Append(wake, wake) // equal is invalid too
	assert.ErrorIs(t, err, models.ErrInvalidInterval)

	_, err = ss.Append(wake.Add(time.Hour), wake)
	assert.ErrorIs(t, err, models.ErrInvalidInterval)
	assert.Zero(t, ss.Len())
}

func TestSettingsStoreDefaultsAndRoundTrip(t *testing.T) {
	kv := store.NewMemKV()
	logger := logging.NewNop()
	st := store.NewSettingsStore(kv, logger)

	got := st.Load()
	assert.Equal(t, models.DefaultSettings(), got)

	got.BedtimeReminderEnabled = true
	got.BedtimeHour = 23
	got.BedtimeMinute = 15
	require.NoError(t, st.Save(got))

	assert.Equal(t, got, store.NewSettingsStore(kv, logger).Load())

	got.BedtimeHour = 25
	assert.Error(t, st.Save(got))
}

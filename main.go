package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/lunoa/daybreak/pkg/audio"
	"github.com/lunoa/daybreak/pkg/engine"
	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
	"github.com/lunoa/daybreak/pkg/recurrence"
	"github.com/lunoa/daybreak/pkg/store"
)

// wakeSchedulerID keys the single background wake registration: only the
// soonest occurrence across all alarms is ever scheduled.
const wakeSchedulerID = "daybreak-next-wake"

type Daybreak struct {
	app    fyne.App
	logger logging.Logger

	settingsStore *store.SettingsStore
	alarms        *store.AlarmStore
	sleeps        *store.SleepStore
	engine        *engine.Engine
	wakeSched     WakeScheduler
	motion        MotionSource
	motionCancel  func()

	engineTicker   *time.Ticker
	reminderTicker *time.Ticker

	mu               sync.Mutex
	settings         models.Settings
	pendingWake      *time.Time
	backgroundDenied bool
}

func main() {
	db := &Daybreak{
		app: app.NewWithID("io.lunoa.daybreak"),
	}

	if err := db.initialize(); err != nil {
		db.logger.Fatalf("failed to start: %v", err)
	}

	db.run()
}

func (db *Daybreak) initialize() error {
	db.logger = logging.New(defaultLogPath(), os.Getenv("DAYBREAK_DEBUG") != "")

	kv := store.NewPrefsKV(db.app.Preferences())
	db.settingsStore = store.NewSettingsStore(kv, db.logger)
	db.alarms = store.NewAlarmStore(kv, db.logger)
	db.sleeps = store.NewSleepStore(kv, db.logger)
	db.settings = db.settingsStore.Load()

	// Sync autostart state with settings on startup
	if err := setupAutostart(db.settings.AutoStart); err != nil {
		db.logger.Warnf("failed to setup autostart: %v", err)
	}

	db.engine = engine.New(engine.Config{
		Alarms:   db.alarms,
		Playback: audio.NewDevice(db.logger),
		Logger:   db.logger,
		OnWake:   db.promptBedtime,
		Events: engine.SessionEvents{
			OnSessionStarted: func(a models.Alarm) {
				db.app.SendNotification(fyne.NewNotification("Daybreak", alarmTitle(a)))
			},
			OnSnoozed: func(a models.Alarm, until time.Time) {
				db.app.SendNotification(fyne.NewNotification("Daybreak",
					"Snoozed until "+until.Format(time.Kitchen)))
			},
		},
	})
	db.wakeSched = newWakeScheduler(db.logger)
	db.motion = newMotionSource(db.logger)
	db.motionCancel = db.motion.Subscribe(func(magnitude float64, at time.Time) {
		if s := db.engine.ActiveSession(); s != nil {
			s.Shake(magnitude, at)
		}
	})

	db.startEngineTicker()
	db.startBedtimeReminder()
	db.refreshWakeSchedule()

	return nil
}

func (db *Daybreak) run() {
	db.app.Lifecycle().SetOnStopped(db.shutdown)
	db.app.Run()
}

// startEngineTicker drives the trigger loop at 1 Hz. The engine dedups
// firings within a calendar minute, so the cadence only needs to be fast
// enough to never skip a whole minute.
func (db *Daybreak) startEngineTicker() {
	db.engineTicker = time.NewTicker(1 * time.Second)
	go func() {
		for range db.engineTicker.C {
			db.engine.Tick()
		}
	}()
}

// promptBedtime receives the wake event from the engine and asks the
// user for a bedtime; the sleep entry is created when they answer via
// RecordBedtime or dropped via SkipSleepEntry.
func (db *Daybreak) promptBedtime(wakeTime time.Time) {
	db.mu.Lock()
	db.pendingWake = &wakeTime
	db.mu.Unlock()

	db.app.SendNotification(fyne.NewNotification("Daybreak",
		"Good morning! Log last night's bedtime to track your sleep."))
	db.refreshWakeSchedule()
}

// RecordBedtime completes the pending wake event into a sleep entry.
func (db *Daybreak) RecordBedtime(bedtime time.Time) (models.SleepEntry, error) {
	db.mu.Lock()
	pending := db.pendingWake
	db.pendingWake = nil
	db.mu.Unlock()

	if pending == nil {
		return models.SleepEntry{}, models.ErrInvalidInterval
	}
	return db.sleeps.Append(bedtime, *pending)
}

// SkipSleepEntry drops the pending wake event without recording anything.
func (db *Daybreak) SkipSleepEntry() {
	db.mu.Lock()
	db.pendingWake = nil
	db.mu.Unlock()
}

// Alarm mutations go through the app so pending snoozes and the
// background wake registration stay consistent with the list.

func (db *Daybreak) AddAlarm(a models.Alarm) (models.Alarm, error) {
	added, err := db.alarms.Add(a)
	if err == nil {
		db.refreshWakeSchedule()
	}
	return added, err
}

func (db *Daybreak) UpdateAlarm(a models.Alarm) error {
	if err := db.alarms.Update(a); err != nil {
		return err
	}
	if !a.Enabled {
		db.engine.CancelSnooze(a.ID)
	}
	db.refreshWakeSchedule()
	return nil
}

func (db *Daybreak) RemoveAlarm(id string) error {
	if err := db.alarms.Remove(id); err != nil {
		return err
	}
	db.engine.CancelSnooze(id)
	db.refreshWakeSchedule()
	return nil
}

func (db *Daybreak) SetAlarmEnabled(id string, enabled bool) error {
	if err := db.alarms.SetEnabled(id, enabled); err != nil {
		return err
	}
	if !enabled {
		db.engine.CancelSnooze(id)
	}
	db.refreshWakeSchedule()
	return nil
}

// UpdateSettings persists new settings and re-applies the ones with side
// effects (autostart).
func (db *Daybreak) UpdateSettings(s models.Settings) error {
	if err := db.settingsStore.Save(s); err != nil {
		return err
	}

	db.mu.Lock()
	db.settings = s
	db.mu.Unlock()

	if err := setupAutostart(s.AutoStart); err != nil {
		db.logger.Warnf("failed to apply autostart setting: %v", err)
	}
	return nil
}

// refreshWakeSchedule re-registers the soonest upcoming occurrence with
// the background wake capability. Denial is degraded mode, not an error:
// the in-process ticker remains authoritative while foregrounded.
func (db *Daybreak) refreshWakeSchedule() {
	db.wakeSched.Cancel(wakeSchedulerID)

	next, at, ok := recurrence.Soonest(db.alarms.List(), time.Now())
	if !ok {
		return
	}

	if d, ok := recurrence.Until(next, time.Now()); ok {
		db.logger.Infof("next alarm %q fires in %s", alarmTitle(next), d.Round(time.Minute))
	}

	err := db.wakeSched.ScheduleAt(wakeSchedulerID, at)
	db.mu.Lock()
	db.backgroundDenied = err != nil
	db.mu.Unlock()
	if err != nil {
		db.logger.Debugf("background wake scheduling unavailable: %v", err)
	}
}

// BackgroundWakeDenied reports whether background scheduling is
// unavailable, for the settings surface to show.
func (db *Daybreak) BackgroundWakeDenied() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.backgroundDenied
}

// shutdown stops the tickers and tears down any active session so a
// looping audio handle never outlives the app.
func (db *Daybreak) shutdown() {
	if db.engineTicker != nil {
		db.engineTicker.Stop()
	}
	if db.reminderTicker != nil {
		db.reminderTicker.Stop()
	}
	if db.motionCancel != nil {
		db.motionCancel()
	}
	db.engine.Close()
}

func alarmTitle(a models.Alarm) string {
	if a.Label != "" {
		return a.Label
	}
	return "Time to wake up"
}

func defaultLogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "daybreak", "daybreak.log")
}

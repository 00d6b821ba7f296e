// Package engine drives alarm triggering and the dismissal ritual: a
// cooperative tick evaluates recurrence for every enabled alarm, and a
// positive match opens a single system-wide session that owns the sound
// scheduler until it is dismissed, snoozed, or superseded.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/lunoa/daybreak/pkg/clock"
	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
	"github.com/lunoa/daybreak/pkg/recurrence"
	"github.com/lunoa/daybreak/pkg/sound"
	"github.com/lunoa/daybreak/pkg/store"
)

// SessionEvents are optional hooks a UI layer attaches to. They are
// invoked synchronously from the engine and must not call back into it.
type SessionEvents struct {
	OnSessionStarted    func(alarm models.Alarm)
	OnBreathingPhase    func(phase BreathingPhase, cycle int)
	OnBreathingComplete func()
	OnWrongFlag         func()
	OnWrongFlagCleared  func()
	OnResolved          func(alarm models.Alarm)
	OnSnoozed           func(alarm models.Alarm, until time.Time)
}

// Config wires the engine's collaborators.
type Config struct {
	Alarms   *store.AlarmStore
	Playback sound.Playback
	Clock    clock.Clock
	Logger   logging.Logger
	Events   SessionEvents
	// OnWake receives the wake timestamp after a successful dismissal;
	// the external prompt-for-bedtime flow turns it into a sleep entry.
	OnWake func(wakeTime time.Time)
}

// Engine owns trigger evaluation and the active session. All state is
// guarded by one mutex; timers re-enter through it, so every callback is
// serialized with user input.
type Engine struct {
	mu       sync.Mutex
	alarms   *store.AlarmStore
	playback sound.Playback
	clock    clock.Clock
	logger   logging.Logger
	events   SessionEvents
	onWake   func(time.Time)

	session      *Session
	lastFireKey  string
	snoozeTimers map[string]*time.Timer
	closed       bool

	// afterFunc is swapped out in tests to capture timer arming.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// New builds an engine. Clock and Logger default to the system clock and
// a no-op logger.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Engine{
		alarms:       cfg.Alarms,
		playback:     cfg.Playback,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		events:       cfg.Events,
		onWake:       cfg.OnWake,
		snoozeTimers: make(map[string]*time.Timer),
		afterFunc:    time.AfterFunc,
	}
}

// fireKey identifies one alarm's firing within one specific calendar
// minute. Keying on the minute-truncated timestamp rather than bare
// hour/minute keeps a later day's firing at the same wall-clock time
// from matching a stale key.
func fireKey(alarmID string, now time.Time) string {
	return fmt.Sprintf("%s-%d", alarmID, models.RoundToMinute(now).Unix())
}

// Tick evaluates every enabled alarm against the current minute. It is
// invoked at roughly 1 Hz by the app shell; the dedup key keeps an alarm
// from re-firing within the same minute even when ticks come faster.
//
// Ordering: when several alarms are due in the same tick they are
// triggered in list order and each new session supersedes the previous
// one, so the last-started alarm owns the visible alert (last-wins).
// Triggers arriving while a session from an earlier tick is active are
// ignored and their dedup key is not consumed.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	now := e.clock.Now()
	startedThisTick := false

	for _, a := range e.alarms.List() {
		if !recurrence.ShouldFireNow(a, now) {
			continue
		}
		key := fireKey(a.ID, now)
		if key == e.lastFireKey {
			continue
		}
		if e.session != nil && !startedThisTick {
			e.logger.Debugf("engine: alarm %q due but a session is active, ignoring", a.ID)
			continue
		}
		e.lastFireKey = key
		e.startSessionLocked(a)
		startedThisTick = true
	}
}

// ActiveSession returns the current session, or nil when idle.
func (e *Engine) ActiveSession() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// CancelSnooze drops a pending snooze re-trigger, used when the alarm is
// disabled or deleted while snoozed.
func (e *Engine) CancelSnooze(alarmID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.snoozeTimers[alarmID]; ok {
		t.Stop()
		delete(e.snoozeTimers, alarmID)
	}
}

// Close tears down any active session and cancels all pending snoozes.
// The engine ignores ticks afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true

	if e.session != nil {
		e.session.teardownLocked()
		e.session = nil
	}
	for id, t := range e.snoozeTimers {
		t.Stop()
		delete(e.snoozeTimers, id)
	}
}

// startSessionLocked opens a new session for the alarm snapshot,
// superseding any active one.
func (e *Engine) startSessionLocked(a models.Alarm) {
	if e.session != nil {
		e.logger.Warnf("engine: alarm %q supersedes active session for alarm %q",
			a.ID, e.session.alarm.ID)
		e.session.teardownLocked()
		e.session = nil
	}

	s := &Session{
		e:         e,
		alarm:     a,
		state:     StateActive,
		mission:   newMission(a.DismissType),
		scheduler: sound.NewScheduler(e.playback, e.logger),
	}
	e.session = s

	e.logger.Infof("engine: alarm %q triggered (%s mission)", a.ID, a.DismissType)
	s.scheduler.Start(a.Intensity, a.Sound)
	if b, ok := s.mission.(*BreathingMission); ok {
		s.armBreathingLocked(b)
	}
	if e.events.OnSessionStarted != nil {
		e.events.OnSessionStarted(a)
	}
}

// snoozeFire is the snooze timer callback. The alarm snapshot re-triggers
// as long as the canonical alarm still exists and is enabled; a snoozed
// re-trigger supersedes whatever session happens to be active, the same
// last-wins rule as same-tick triggers.
func (e *Engine) snoozeFire(a models.Alarm) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	delete(e.snoozeTimers, a.ID)

	current, ok := e.alarms.Get(a.ID)
	if !ok || !current.Enabled {
		e.logger.Infof("engine: dropping snoozed re-trigger for removed or disabled alarm %q", a.ID)
		return
	}
	e.startSessionLocked(a)
}

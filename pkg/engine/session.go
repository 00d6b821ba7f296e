package engine

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lunoa/daybreak/pkg/models"
	"github.com/lunoa/daybreak/pkg/sound"
	"github.com/lunoa/daybreak/pkg/store"
)

// SessionState tracks one trigger session's lifecycle.
type SessionState int

const (
	StateActive SessionState = iota
	StateResolved
)

// Session is one active alert: a snapshot of the triggering alarm, its
// mission state, and the sound scheduler. All methods are safe to call
// from timer callbacks; a session that has been resolved or superseded
// ignores further input.
type Session struct {
	e     *Engine
	alarm models.Alarm // snapshot, the canonical list is not held

	state     SessionState
	mission   Mission
	scheduler *sound.Scheduler

	phaseTimer *time.Timer
	wrongTimer *time.Timer
	wrongFlag  bool
}

// Alarm returns the alarm snapshot this session was triggered for.
func (s *Session) Alarm() models.Alarm {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.alarm
}

// State returns the session state.
func (s *Session) State() SessionState {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.state
}

// Mission exposes the mission payload for rendering.
func (s *Session) Mission() Mission {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.mission
}

// WrongFlag reports whether the transient wrong-input flag is up.
func (s *Session) WrongFlag() bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.wrongFlag
}

// liveLocked reports whether this session still owns the alert.
func (s *Session) liveLocked() bool {
	return s.e.session == s && s.state == StateActive
}

// Dismiss resolves a simple mission, or a breathing mission whose cycles
// are complete. Other missions resolve through their own input paths.
func (s *Session) Dismiss() bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.liveLocked() {
		return false
	}

	switch m := s.mission.(type) {
	case *SimpleMission:
		s.resolveLocked()
		return true
	case *BreathingMission:
		if m.Complete {
			s.resolveLocked()
			return true
		}
	}
	return false
}

// SubmitAnswer feeds typed input to an affirmation or math mission.
// Wrong or unparseable input raises the transient wrong flag and leaves
// the mission untouched; in particular a math problem is never
// regenerated by a wrong answer.
func (s *Session) SubmitAnswer(input string) bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.liveLocked() {
		return false
	}

	switch m := s.mission.(type) {
	case *AffirmationMission:
		if strings.EqualFold(strings.TrimSpace(input), m.Target) {
			s.resolveLocked()
			return true
		}
		s.raiseWrongLocked()
	case *MathMission:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			s.raiseWrongLocked()
			return false
		}
		if n == m.Answer {
			s.resolveLocked()
			return true
		}
		s.raiseWrongLocked()
	}
	return false
}

// Shake feeds one motion sample to a shake mission. A sample qualifies
// when its magnitude exceeds the threshold and the debounce window since
// the previous qualifying sample has elapsed. Returns true when the
// mission auto-resolves.
func (s *Session) Shake(magnitude float64, at time.Time) bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.liveLocked() {
		return false
	}

	m, ok := s.mission.(*ShakeMission)
	if !ok {
		return false
	}
	if magnitude <= shakeThreshold {
		return false
	}
	if m.hasLast && at.Sub(m.last) < shakeDebounce {
		return false
	}

	m.last = at
	m.hasLast = true
	m.Count++
	if m.Count >= requiredShakes {
		s.resolveLocked()
		return true
	}
	return false
}

// Snooze stops the alert, discards the mission, and schedules a
// re-trigger of the same alarm snapshot. The one-shot auto-disable does
// not run here: only an eventual dismissal consumes it.
func (s *Session) Snooze() bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.liveLocked() || s.alarm.SnoozeMinutes <= 0 {
		return false
	}

	e := s.e
	alarm := s.alarm
	s.teardownLocked()
	e.session = nil

	d := time.Duration(alarm.SnoozeMinutes) * time.Minute
	until := e.clock.Now().Add(d)
	if old := e.snoozeTimers[alarm.ID]; old != nil {
		old.Stop()
	}
	e.snoozeTimers[alarm.ID] = e.afterFunc(d, func() { e.snoozeFire(alarm) })

	e.logger.Infof("engine: alarm %q snoozed until %s", alarm.ID, until.Format(time.Kitchen))
	if e.events.OnSnoozed != nil {
		e.events.OnSnoozed(alarm, until)
	}
	return true
}

// resolveLocked completes the session: sound off, one-shot disable,
// wake event out.
func (s *Session) resolveLocked() {
	e := s.e
	s.state = StateResolved
	s.teardownLocked()
	e.session = nil

	if s.alarm.IsOneShot() {
		// One-shot rule: fires once, then disables itself. Runs exactly
		// once because the session resolves exactly once.
		if err := e.alarms.SetEnabled(s.alarm.ID, false); err != nil && !errors.Is(err, store.ErrNotFound) {
			e.logger.Errorf("engine: failed to disable one-shot alarm %q: %v", s.alarm.ID, err)
		} else {
			e.logger.Infof("engine: one-shot alarm %q disabled after dismissal", s.alarm.ID)
		}
	}

	wakeTime := e.clock.Now()
	e.logger.Infof("engine: alarm %q dismissed at %s", s.alarm.ID, wakeTime.Format(time.Kitchen))
	if e.events.OnResolved != nil {
		e.events.OnResolved(s.alarm)
	}
	if e.onWake != nil {
		e.onWake(wakeTime)
	}
}

// teardownLocked cancels every timer this session armed and releases the
// sound scheduler. It runs on every exit path, including supersession,
// so a stale callback can never re-arm a dead session.
func (s *Session) teardownLocked() {
	s.scheduler.Stop()
	if s.phaseTimer != nil {
		s.phaseTimer.Stop()
		s.phaseTimer = nil
	}
	if s.wrongTimer != nil {
		s.wrongTimer.Stop()
		s.wrongTimer = nil
	}
}

// raiseWrongLocked raises the transient wrong-input flag, auto-clearing
// after wrongFlagDuration.
func (s *Session) raiseWrongLocked() {
	e := s.e
	s.wrongFlag = true
	if e.events.OnWrongFlag != nil {
		e.events.OnWrongFlag()
	}
	if s.wrongTimer != nil {
		s.wrongTimer.Stop()
	}
	s.wrongTimer = e.afterFunc(wrongFlagDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.session != s {
			return
		}
		s.wrongFlag = false
		if e.events.OnWrongFlagCleared != nil {
			e.events.OnWrongFlagCleared()
		}
	})
}

// armBreathingLocked starts the automatic phase sequencer.
func (s *Session) armBreathingLocked(b *BreathingMission) {
	if s.e.events.OnBreathingPhase != nil {
		s.e.events.OnBreathingPhase(b.Phase, b.Cycle)
	}
	s.phaseTimer = s.e.afterFunc(inhaleDuration, s.breathingAdvance)
}

// breathingAdvance is the phase timer callback. The liveLocked guard
// drops callbacks that raced a teardown or supersession.
func (s *Session) breathingAdvance() {
	e := s.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if !s.liveLocked() {
		return
	}

	b, ok := s.mission.(*BreathingMission)
	if !ok {
		return
	}

	var next time.Duration
	switch b.Phase {
	case PhaseInhale:
		b.Phase = PhaseHold
		next = holdDuration
	case PhaseHold:
		b.Phase = PhaseExhale
		next = exhaleDuration
	case PhaseExhale:
		if b.Cycle >= requiredCycles {
			// Dismissible now, but resolution waits for explicit
			// confirmation via Dismiss.
			b.Complete = true
			if e.events.OnBreathingComplete != nil {
				e.events.OnBreathingComplete()
			}
			return
		}
		b.Cycle++
		b.Phase = PhaseInhale
		next = inhaleDuration
	}

	if e.events.OnBreathingPhase != nil {
		e.events.OnBreathingPhase(b.Phase, b.Cycle)
	}
	s.phaseTimer = e.afterFunc(next, s.breathingAdvance)
}

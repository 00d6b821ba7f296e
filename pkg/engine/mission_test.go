package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoa/daybreak/pkg/models"
)

func activeSession(t *testing.T, f *fixture, dismiss models.DismissType) *Session {
	t.Helper()
	f.engine.Tick()
	s := f.engine.ActiveSession()
	require.NotNil(t, s)
	require.Equal(t, dismiss, s.Mission().Type())
	return s
}

func TestMathMissionExactAnswerResolves(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissMath))
	s := activeSession(t, f, models.DismissMath)

	// Pin a known problem so the answer is deterministic.
	m := &MathMission{A: 42, B: 17, Op: OpSub, Answer: 25}
	s.e.mu.Lock()
	s.mission = m
	s.e.mu.Unlock()

	assert.True(t, s.SubmitAnswer("25"))
	assert.Equal(t, StateResolved, s.State())
	require.Len(t, f.wakes, 1)
}

func TestMathMissionBadInputKeepsProblem(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissMath))
	s := activeSession(t, f, models.DismissMath)

	m := &MathMission{A: 42, B: 17, Op: OpSub, Answer: 25}
	s.e.mu.Lock()
	s.mission = m
	s.e.mu.Unlock()

	// Non-integer input is rejected locally.
	assert.False(t, s.SubmitAnswer("abc"))
	assert.Equal(t, StateActive, s.State())
	assert.True(t, s.WrongFlag())
	assert.Same(t, m, s.Mission(), "unparseable input must not regenerate the problem")

	// A valid but wrong integer flags too, and the same problem persists.
	assert.False(t, s.SubmitAnswer("24"))
	assert.Equal(t, StateActive, s.State())
	assert.Same(t, m, s.Mission())

	// Whitespace around a correct answer is tolerated.
	assert.True(t, s.SubmitAnswer("  25 "))
}

func TestMathMissionGeneration(t *testing.T) {
	for i := 0; i < 200; i++ {
		m := newMathMission()
		switch m.Op {
		case OpAdd:
			assert.Equal(t, m.A+m.B, m.Answer)
		case OpSub:
			assert.GreaterOrEqual(t, m.A, 30)
			assert.LessOrEqual(t, m.A, 59)
			assert.GreaterOrEqual(t, m.B, 1)
			assert.LessOrEqual(t, m.B, 30)
			assert.Equal(t, m.A-m.B, m.Answer)
			assert.GreaterOrEqual(t, m.Answer, 0, "subtraction must never go negative")
		case OpMul:
			assert.GreaterOrEqual(t, m.A, 2)
			assert.LessOrEqual(t, m.A, 13)
			assert.GreaterOrEqual(t, m.B, 2)
			assert.LessOrEqual(t, m.B, 13)
			assert.Equal(t, m.A*m.B, m.Answer)
		}
	}
}

func TestAffirmationMissionMatching(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissAffirmation))
	s := activeSession(t, f, models.DismissAffirmation)

	target := s.Mission().(*AffirmationMission).Target
	assert.Contains(t, affirmationPhrases, target)

	assert.False(t, s.SubmitAnswer("not the phrase"))
	assert.True(t, s.WrongFlag())
	assert.Equal(t, StateActive, s.State())

	// Case and surrounding whitespace are forgiven; the phrase itself
	// must match exactly.
	assert.True(t, s.SubmitAnswer("  "+strings.ToUpper(target)+"  "))
	assert.Equal(t, StateResolved, s.State())
}

func TestWrongFlagAutoClears(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissAffirmation))
	s := activeSession(t, f, models.DismissAffirmation)

	require.False(t, s.SubmitAnswer("wrong"))
	require.True(t, s.WrongFlag())

	armed := f.timers.last()
	assert.Equal(t, 500*time.Millisecond, armed.d)
	armed.f()
	assert.False(t, s.WrongFlag())
}

func TestBreathingMissionSequence(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissBreathing))

	var phases []BreathingPhase
	var cycles []int
	complete := false
	f.engine.events.OnBreathingPhase = func(p BreathingPhase, c int) {
		phases = append(phases, p)
		cycles = append(cycles, c)
	}
	f.engine.events.OnBreathingComplete = func() { complete = true }

	s := activeSession(t, f, models.DismissBreathing)

	// Not dismissible until the cycles finish.
	assert.False(t, s.Dismiss())

	// Drive the phase timer: 3 cycles of inhale(4s)/hold(2s)/exhale(4s).
	wantDurations := []time.Duration{}
	for c := 0; c < requiredCycles; c++ {
		wantDurations = append(wantDurations, 4*time.Second, 2*time.Second, 4*time.Second)
	}
	for i := 0; !complete; i++ {
		require.Less(t, i, 9, "sequence must complete within 3 cycles")
		armed := f.timers.last()
		assert.Equal(t, wantDurations[i], armed.d)
		armed.f()
	}

	m := s.Mission().(*BreathingMission)
	assert.True(t, m.Complete)
	assert.Equal(t, requiredCycles, m.Cycle)

	// Completion does not auto-resolve; explicit confirmation does.
	assert.Equal(t, StateActive, s.State())
	assert.True(t, s.Dismiss())

	assert.Equal(t, []BreathingPhase{
		PhaseInhale, PhaseHold, PhaseExhale,
		PhaseInhale, PhaseHold, PhaseExhale,
		PhaseInhale, PhaseHold, PhaseExhale,
	}, phases)
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 3, 3, 3}, cycles)
}

func TestBreathingStalePhaseCallbackIsInert(t *testing.T) {
	a := repeating("a1", models.DismissBreathing)
	a.SnoozeMinutes = 5
	f := newFixture(t, a)
	s := activeSession(t, f, models.DismissBreathing)

	phaseCallback := f.timers.last()
	require.True(t, s.Snooze())

	// The phase timer was cancelled at teardown; even if the callback was
	// already in flight it must not advance a torn-down session.
	phaseCallback.f()
	m := s.mission.(*BreathingMission)
	assert.Equal(t, PhaseInhale, m.Phase)
	assert.Equal(t, 1, m.Cycle)
}

func TestShakeMissionDebounce(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissShake))
	s := activeSession(t, f, models.DismissShake)

	base := fireTime

	t.Run("spaced samples all qualify", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			assert.False(t, s.Shake(2.0, base.Add(time.Duration(i)*300*time.Millisecond)))
		}
		assert.True(t, s.Shake(2.0, base.Add(4*300*time.Millisecond)),
			"fifth qualifying sample auto-resolves")
		assert.Equal(t, StateResolved, s.State())
	})
}

func TestShakeMissionDebounceRejectsBursts(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissShake))
	s := activeSession(t, f, models.DismissShake)

	// Five strong samples only 100ms apart: samples at 0ms and 300ms
	// qualify, the rest land inside the debounce window.
	base := fireTime
	for i := 0; i < 5; i++ {
		s.Shake(2.0, base.Add(time.Duration(i)*100*time.Millisecond))
	}

	m := s.Mission().(*ShakeMission)
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, StateActive, s.State())
}

func TestShakeMissionIgnoresWeakSamples(t *testing.T) {
	f := newFixture(t, repeating("a1", models.DismissShake))
	s := activeSession(t, f, models.DismissShake)

	for i := 0; i < 10; i++ {
		s.Shake(1.0, fireTime.Add(time.Duration(i)*time.Second))
	}
	assert.Zero(t, s.Mission().(*ShakeMission).Count)
}

func TestFreshMissionStateEachTrigger(t *testing.T) {
	a := repeating("a1", models.DismissShake)
	a.SnoozeMinutes = 1
	f := newFixture(t, a)
	s := activeSession(t, f, models.DismissShake)

	s.Shake(2.0, fireTime)
	s.Shake(2.0, fireTime.Add(time.Second))
	require.Equal(t, 2, s.Mission().(*ShakeMission).Count)

	require.True(t, s.Snooze())
	f.timers.last().f() // snooze re-trigger

	fresh := f.engine.ActiveSession()
	require.NotNil(t, fresh)
	assert.NotSame(t, s, fresh)
	assert.Zero(t, fresh.Mission().(*ShakeMission).Count, "count resets on fresh mission start")
}

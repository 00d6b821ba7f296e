package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lunoa/daybreak/pkg/models"
)

// Mission parameters. Breathing paces a 4-2-4 cycle three times; shake
// wants five qualifying samples with a debounce window so one vigorous
// swing is not counted five times.
const (
	inhaleDuration = 4 * time.Second
	holdDuration   = 2 * time.Second
	exhaleDuration = 4 * time.Second
	requiredCycles = 3

	requiredShakes = 5
	shakeThreshold = 1.5
	shakeDebounce  = 300 * time.Millisecond

	wrongFlagDuration = 500 * time.Millisecond
)

// Mission is the challenge keeping an alert ringing. Exactly one concrete
// variant backs each dismiss type.
type Mission interface {
	Type() models.DismissType
}

// SimpleMission resolves on a single stop action.
type SimpleMission struct{}

func (*SimpleMission) Type() models.DismissType { return models.DismissSimple }

// BreathingPhase is one step of the guided breathing cycle.
type BreathingPhase string

const (
	PhaseInhale BreathingPhase = "inhale"
	PhaseHold   BreathingPhase = "hold"
	PhaseExhale BreathingPhase = "exhale"
)

// BreathingMission sequences inhale/hold/exhale cycles on its own timer.
// It becomes dismissible after the final exhale but still waits for an
// explicit confirmation.
type BreathingMission struct {
	Phase    BreathingPhase
	Cycle    int // 1-based
	Complete bool
}

func (*BreathingMission) Type() models.DismissType { return models.DismissBreathing }

// AffirmationMission requires typing the target phrase back, compared
// case-insensitively after trimming surrounding whitespace.
type AffirmationMission struct {
	Target string
}

func (*AffirmationMission) Type() models.DismissType { return models.DismissAffirmation }

var affirmationPhrases = []string{
	"I am awake and ready",
	"Today is full of possibilities",
	"I rise with energy",
	"My mind is clear and focused",
	"I choose to start my day now",
}

// MathOp is an arithmetic operator of a math mission.
type MathOp string

const (
	OpAdd MathOp = "+"
	OpSub MathOp = "-"
	OpMul MathOp = "×"
)

// MathMission holds one arithmetic problem. The problem is generated once
// per mission; wrong answers flash an error but never regenerate it, so
// guessing cannot fish for an easier problem.
type MathMission struct {
	A      int
	B      int
	Op     MathOp
	Answer int
}

func (*MathMission) Type() models.DismissType { return models.DismissMath }

// Problem renders the question text.
func (m *MathMission) Problem() string {
	return fmt.Sprintf("%d %s %d = ?", m.A, m.Op, m.B)
}

// ShakeMission counts debounced motion samples above the threshold and
// auto-resolves at the required count.
type ShakeMission struct {
	Count   int
	last    time.Time
	hasLast bool
}

func (*ShakeMission) Type() models.DismissType { return models.DismissShake }

// newMission builds fresh mission state for the dismiss type. Random
// choices (phrase, math problem) are made here, once per trigger.
func newMission(t models.DismissType) Mission {
	switch t {
	case models.DismissBreathing:
		return &BreathingMission{Phase: PhaseInhale, Cycle: 1}
	case models.DismissAffirmation:
		return &AffirmationMission{Target: affirmationPhrases[rand.IntN(len(affirmationPhrases))]}
	case models.DismissMath:
		return newMathMission()
	case models.DismissShake:
		return &ShakeMission{}
	default:
		return &SimpleMission{}
	}
}

// newMathMission picks an operator and operands. Subtraction operands are
// skewed so the answer is never negative; multiplication stays inside the
// times tables.
func newMathMission() *MathMission {
	m := &MathMission{}
	switch rand.IntN(3) {
	case 0:
		m.Op = OpAdd
		m.A = 1 + rand.IntN(50)
		m.B = 1 + rand.IntN(50)
		m.Answer = m.A + m.B
	case 1:
		m.Op = OpSub
		m.A = 30 + rand.IntN(30) // [30,59]
		m.B = 1 + rand.IntN(30)  // [1,30]
		m.Answer = m.A - m.B
	default:
		m.Op = OpMul
		m.A = 2 + rand.IntN(12) // [2,13]
		m.B = 2 + rand.IntN(12)
		m.Answer = m.A * m.B
	}
	return m
}

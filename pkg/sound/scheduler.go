package sound

import (
	"sync"
	"time"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/models"
)

// quietVolume is the low end of a loud/quiet pattern. Not fully muted, so
// patterned sounds never cut to abrupt silence mid-alert.
const quietVolume = 0.15

// Handle controls one playing clip.
type Handle interface {
	SetVolume(v float64)
	Stop()
}

// Playback is the audio device capability the scheduler drives. A failing
// Play degrades the alert to visual-only; it never blocks dismissal.
type Playback interface {
	Play(clip string, volume, rate float64, looping bool) (Handle, error)
}

// Scheduler plays an alarm's sound for the lifetime of one alert: it maps
// the wake intensity to an initial volume and, when the sound has a
// loud/quiet pattern, toggles the volume on a repeating phase timer.
type Scheduler struct {
	mu       sync.Mutex
	playback Playback
	logger   logging.Logger

	handle  Handle
	volume  float64
	pattern []int
	idx     int
	loud    bool
	timer   *time.Timer
	stopped bool

	// afterFunc is swapped out in tests to capture phase timings.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewScheduler builds a scheduler over the given playback device.
func NewScheduler(playback Playback, logger logging.Logger) *Scheduler {
	return &Scheduler{
		playback:  playback,
		logger:    logger,
		afterFunc: time.AfterFunc,
	}
}

// Start begins playback for the given intensity and sound. Playback
// failures are logged and swallowed; the alert continues without audio.
func (s *Scheduler) Start(intensity models.WakeIntensity, snd models.AlarmSound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil || s.stopped {
		return
	}

	s.volume = intensity.Volume()
	profile := snd.Profile()

	handle, err := s.playback.Play(string(snd), s.volume, profile.Rate, true)
	if err != nil {
		s.logger.Warnf("sound: playback unavailable, alert continues silently: %v", err)
		return
	}
	s.handle = handle

	if len(profile.Pattern) == 0 {
		return // continuous playback at the initial volume
	}

	s.pattern = profile.Pattern
	s.idx = 0
	s.loud = true
	s.armLocked()
}

// armLocked schedules the next toggle using the current phase's duration.
func (s *Scheduler) armLocked() {
	d := time.Duration(s.pattern[s.idx]) * time.Millisecond
	s.timer = s.afterFunc(d, s.advance)
}

// advance flips loud/quiet and moves circularly to the next phase.
func (s *Scheduler) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.handle == nil {
		return
	}

	s.loud = !s.loud
	if s.loud {
		s.handle.SetVolume(s.volume)
	} else {
		s.handle.SetVolume(quietVolume)
	}

	s.idx = (s.idx + 1) % len(s.pattern)
	s.armLocked()
}

// Stop cancels the phase timer and releases the audio handle. It is
// idempotent and safe to call from every session exit path.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
}

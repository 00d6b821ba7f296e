package audio

import (
	"errors"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/lunoa/daybreak/pkg/logging"
	"github.com/lunoa/daybreak/pkg/sound"
)

// ErrUnavailable is returned when the audio hardware could not be
// initialized. Callers degrade to a silent alert.
var ErrUnavailable = errors.New("audio context unavailable")

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// initAudioContext initializes the global audio context once
func initAudioContext(logger logging.Logger) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			logger.Errorf("audio: failed to initialize context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		logger.Info("audio: context initialized")
	})
}

// Device is the oto-backed implementation of sound.Playback.
type Device struct {
	logger logging.Logger
}

// NewDevice returns a playback device. The audio context is initialized
// lazily on first Play so a headless start never blocks on hardware.
func NewDevice(logger logging.Logger) *Device {
	return &Device{logger: logger}
}

// Play starts the named clip at the given volume and playback rate and
// returns a handle for volume changes and cancellation.
func (d *Device) Play(clip string, volume, rate float64, looping bool) (sound.Handle, error) {
	initAudioContext(d.logger)
	if !audioCtxReady || globalAudioCtx == nil {
		return nil, ErrUnavailable
	}

	src := newClipReader(clip, rate, looping)
	p := globalAudioCtx.NewPlayer(src)
	p.SetVolume(volume)
	p.Play()

	return &playerHandle{player: p}, nil
}

// playerHandle wraps an oto player with idempotent stop.
type playerHandle struct {
	mu      sync.Mutex
	player  *oto.Player
	stopped bool
}

func (h *playerHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.player.SetVolume(v)
}

// Stop halts playback and releases the player. Leaving a looping player
// open leaks an audio handle for the process lifetime, so every session
// exit path ends up here.
func (h *playerHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	_ = h.player.Close()
}

package audio

import (
	"io"
	"math"
)

const sampleRate = 44100

// clipTones maps clip names to base frequencies in Hz. Clips are
// synthesized rather than bundled, so there is no asset pipeline and the
// playback rate maps cleanly onto pitch.
var clipTones = map[string]float64{
	"classic": 880,
	"chime":   660,
	"digital": 1040,
	"nature":  440,
	"zen":     330,
}

const defaultTone = 880

// clipReader produces a signed 16-bit LE mono sine tone. A looping reader
// never returns EOF; a non-looping one ends after two seconds.
type clipReader struct {
	freq      float64
	phase     float64
	remaining int // samples until EOF; -1 for looping
}

func newClipReader(clip string, rate float64, looping bool) io.Reader {
	freq, ok := clipTones[clip]
	if !ok {
		freq = defaultTone
	}
	if rate > 0 {
		freq *= rate
	}

	remaining := -1
	if !looping {
		remaining = 2 * sampleRate
	}
	return &clipReader{freq: freq, remaining: remaining}
}

func (c *clipReader) Read(p []byte) (int, error) {
	samples := len(p) / 2
	if c.remaining >= 0 && samples > c.remaining {
		samples = c.remaining
	}
	if samples == 0 {
		return 0, io.EOF
	}

	step := 2 * math.Pi * c.freq / sampleRate
	for i := 0; i < samples; i++ {
		v := int16(math.Sin(c.phase) * math.MaxInt16 * 0.8)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
		c.phase += step
		if c.phase > 2*math.Pi {
			c.phase -= 2 * math.Pi
		}
	}

	if c.remaining > 0 {
		c.remaining -= samples
	}
	return samples * 2, nil
}

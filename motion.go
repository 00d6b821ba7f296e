package main

import (
	"time"

	"github.com/lunoa/daybreak/pkg/logging"
)

// MotionSource is the optional accelerometer capability feeding shake
// missions. Subscribe returns a cancel function; samples arrive on the
// platform's own goroutine.
type MotionSource interface {
	Subscribe(fn func(magnitude float64, at time.Time)) (cancel func())
}

// newMotionSource probes for a platform backend. Desktop hardware has no
// accelerometer, so this currently yields no samples; shake alarms stay
// configurable and simply never auto-resolve without an input source.
func newMotionSource(logger logging.Logger) MotionSource {
	return &noMotion{logger: logger}
}

type noMotion struct {
	logger logging.Logger
}

func (n *noMotion) Subscribe(func(magnitude float64, at time.Time)) func() {
	n.logger.Debug("motion: no sensor available, shake input disabled")
	return func() {}
}

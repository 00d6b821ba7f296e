package main

import (
	"errors"
	"time"

	"github.com/lunoa/daybreak/pkg/logging"
)

// ErrWakeDenied is returned when the platform offers no background wake
// registration. Degraded mode: the in-process trigger loop still fires
// alarms while the app runs in the foreground.
var ErrWakeDenied = errors.New("background wake scheduling not available")

// WakeScheduler is the optional OS capability for waking the process at a
// timestamp when it cannot guarantee foreground tick continuity.
type WakeScheduler interface {
	ScheduleAt(id string, at time.Time) error
	Cancel(id string)
}

// newWakeScheduler probes for a platform backend. Desktop builds have no
// portable alarm registration, so this currently always degrades.
func newWakeScheduler(logger logging.Logger) WakeScheduler {
	return &deniedScheduler{logger: logger}
}

type deniedScheduler struct {
	logger logging.Logger
}

func (d *deniedScheduler) ScheduleAt(id string, at time.Time) error {
	d.logger.Debugf("wakesched: denied registration %q for %s", id, at.Format(time.RFC3339))
	return ErrWakeDenied
}

func (d *deniedScheduler) Cancel(string) {}

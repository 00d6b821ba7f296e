package main

import (
	"time"

	"fyne.io/fyne/v2"
)

// startBedtimeReminder checks once a minute whether the configured
// bedtime reminder is due. The day guard keeps it to one notification
// per calendar day even though the matching minute is hit by several
// checks.
func (db *Daybreak) startBedtimeReminder() {
	var lastNotified string

	db.reminderTicker = time.NewTicker(1 * time.Minute)
	go func() {
		for range db.reminderTicker.C {
			db.mu.Lock()
			settings := db.settings
			db.mu.Unlock()

			if !settings.BedtimeReminderEnabled {
				continue
			}

			now := time.Now()
			if now.Hour() != settings.BedtimeHour || now.Minute() != settings.BedtimeMinute {
				continue
			}
			day := now.Format("2006-01-02")
			if day == lastNotified {
				continue
			}
			lastNotified = day

			db.app.SendNotification(fyne.NewNotification("Daybreak",
				"Time to wind down for bed."))
			db.logger.Infof("bedtime reminder sent for %s", day)
		}
	}()
}

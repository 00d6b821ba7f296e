package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart reconciles the login-item registration with the
// AutoStart setting.
func setupAutostart(enable bool) error {
	// Get the executable path
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "daybreak",
		DisplayName: "Daybreak",
		Exec:        []string{execPath},
	}

	if enable {
		if !app.IsEnabled() {
			return app.Enable()
		}
	} else {
		if app.IsEnabled() {
			return app.Disable()
		}
	}

	return nil
}

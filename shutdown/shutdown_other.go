//go:build !windows

// Package shutdown routes the platform's interrupt signals to one channel
// so the UI loop can quit cleanly instead of dying mid-submission.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}

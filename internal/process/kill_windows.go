//go:build windows

// Package process stops the headless Chrome tree started for PDF export.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and every child it spawned.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric pid
}

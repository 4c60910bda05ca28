//go:build !windows

// Package process stops the headless Chrome tree started for PDF export.
package process

import "syscall"

// KillTree kills the process group pid leads. Chrome puts its renderer and
// GPU helpers in that group. Errors are ignored: the group may be gone.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build !windows

package daemon

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// detachAttr starts the child in a new session
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

func terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// EnvDaemon is set in the environment of a detached daemon process
const EnvDaemon = "CLIPSTACK_DAEMON"

// ErrNotRunning means no live daemon process was found
var ErrNotRunning = errors.New("daemon is not running")

// Daemonize starts executable with args in the background, detached from
// the terminal, with its output appended to logPath. The child's PID is
// written to pidFile.
func Daemonize(executable string, args []string, pidFile, logPath string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if pid, err := RunningPID(pidFile); err == nil {
		return pid, fmt.Errorf("daemon already running with PID %d", pid)
	}

	// Remove the --detach flag to prevent infinite recursion
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "--detach" && arg != "-d" {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create log directory: %w", err)
	}
	logF, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	cmd := exec.Command(executable, filteredArgs...)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.Env = append(os.Environ(), EnvDaemon+"=1")
	cmd.SysProcAttr = detachAttr()

	logger.Info("Starting daemon process", zap.String("executable", executable), zap.Strings("args", filteredArgs))
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}

	pid := cmd.Process.Pid
	if err := WritePIDFile(pidFile, pid); err != nil {
		return pid, err
	}

	// Detach the process - this is critical to prevent zombie processes
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release daemon process: %w", err)
	}

	logger.Info("Daemon started", zap.Int("pid", pid), zap.String("pidFile", pidFile))
	return pid, nil
}

// IsDaemonChild reports whether this process was started by Daemonize
func IsDaemonChild() bool {
	return os.Getenv(EnvDaemon) == "1"
}

// WritePIDFile records pid in path
func WritePIDFile(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// ReadPIDFile returns the PID stored in path
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file %s: %q", path, string(data))
	}
	return pid, nil
}

// RemovePIDFile deletes path if it still names this process
func RemovePIDFile(path string) {
	if pid, err := ReadPIDFile(path); err == nil && pid == os.Getpid() {
		os.Remove(path)
	}
}

// RunningPID returns the PID from pidFile if that process is alive.
// A stale pid file is removed.
func RunningPID(pidFile string) (int, error) {
	pid, err := ReadPIDFile(pidFile)
	if err != nil {
		return 0, ErrNotRunning
	}
	if !processAlive(pid) {
		os.Remove(pidFile)
		return 0, ErrNotRunning
	}
	return pid, nil
}

// Stop asks the daemon named in pidFile to exit
func Stop(pidFile string) (int, error) {
	pid, err := RunningPID(pidFile)
	if err != nil {
		return 0, err
	}
	if err := terminate(pid); err != nil {
		return pid, fmt.Errorf("failed to stop process %d: %w", pid, err)
	}
	os.Remove(pidFile)
	return pid, nil
}

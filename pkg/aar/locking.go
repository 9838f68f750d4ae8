package aar

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/utils/permissions"
)

const pollInterval = 100 * time.Millisecond

// IsProcessRunning checks if a process with given PID is still running
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks for existence without delivering anything.
	return process.Signal(syscall.Signal(0)) == nil
}

// TryAcquireLock attempts to take the extraction lock. It returns false when
// a live process holds it. Locks left by dead processes are removed.
func TryAcquireLock(paths *ExtractionPaths, logger hclog.Logger) (bool, error) {
	if err := os.MkdirAll(paths.Extract(), permissions.DefaultDirPerms); err != nil {
		return false, fmt.Errorf("creating lock directory: %w", err)
	}

	lockPath := paths.LockFile()
	if data, err := os.ReadFile(lockPath); err == nil {
		oldPid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		switch {
		case err != nil:
			logger.Info("🧹 Removing invalid lock file (couldn't parse PID)", "path", lockPath)
			os.Remove(lockPath)
		case IsProcessRunning(oldPid):
			logger.Debug("🔒 Lock held by active process", "pid", oldPid)
			return false, nil
		default:
			logger.Info("🧹 Removing stale lock from dead process", "pid", oldPid)
			os.Remove(lockPath)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, permissions.DefaultFilePerms)
	if err != nil {
		if os.IsExist(err) {
			logger.Debug("🔒 Lock file exists, another process is extracting")
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	pid := os.Getpid()
	if _, err := fmt.Fprintf(file, "%d\n", pid); err != nil {
		os.Remove(lockPath)
		return false, err
	}

	logger.Debug("🔒 Acquired extraction lock", "pid", pid)
	return true, nil
}

// ReleaseLock releases the extraction lock
func ReleaseLock(paths *ExtractionPaths, logger hclog.Logger) {
	if err := os.Remove(paths.LockFile()); err != nil {
		logger.Debug("⚠️ Failed to remove lock file", "error", err)
		return
	}
	logger.Debug("🔓 Released extraction lock")
}

// WaitForExtraction polls until the lock file disappears or timeout passes.
func WaitForExtraction(paths *ExtractionPaths, timeout time.Duration, logger hclog.Logger) error {
	lockPath := paths.LockFile()
	deadline := time.Now().Add(timeout)

	for attempt := 0; ; attempt++ {
		if _, err := os.Stat(lockPath); os.IsNotExist(err) {
			logger.Debug("✅ Extraction lock released")
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", sberrors.ErrExtractionTimeout, paths.Name())
		}
		if attempt%10 == 0 {
			logger.Debug("⏳ Waiting for extraction to complete...", "library", paths.Name())
		}
		time.Sleep(pollInterval)
	}
}

// CleanupStaleExtractions removes scratch directories of dead processes.
func CleanupStaleExtractions(paths *ExtractionPaths, logger hclog.Logger) error {
	dirs, err := paths.ListTempExtractions()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		pid, err := strconv.Atoi(filepath.Base(dir))
		if err != nil || IsProcessRunning(pid) {
			continue
		}
		logger.Info("🧹 Cleaning up stale extraction directory from dead process", "pid", pid)
		if err := os.RemoveAll(dir); err != nil {
			logger.Debug("⚠️ Failed to remove stale directory", "path", dir, "error", err)
		}
	}
	return nil
}

// pkg/logger/paths.go

package logger

import (
	"os"
	"path/filepath"
	"runtime"
)

const logFileName = "groundwork.log"

// PlatformLogPaths returns candidate log paths in order of priority.
func PlatformLogPaths() []string {
	switch runtime.GOOS {
	case "linux":
		return []string{
			filepath.Join("/var/log/groundwork", logFileName), // best when running as root
			xdgStatePath(logFileName),                         // user-local fallback
			filepath.Join(os.TempDir(), "groundwork", logFileName),
		}
	case "darwin":
		return []string{
			xdgStatePath(logFileName),
			filepath.Join(os.TempDir(), "groundwork", logFileName),
		}
	default:
		return []string{logFileName}
	}
}

func xdgStatePath(name string) string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "groundwork", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "groundwork", name)
	}
	return filepath.Join(home, ".local", "state", "groundwork", name)
}

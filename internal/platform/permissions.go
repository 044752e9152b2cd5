package platform

import (
	"os"
	"runtime"
)

// ExecutableMode is the mode given to files extracted with an executable bit.
const ExecutableMode os.FileMode = 0755

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether any executable bit is set in mode.
func IsExecutable(mode os.FileMode) bool {
	return mode.Perm()&0111 != 0
}

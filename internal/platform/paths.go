package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SharedDataDir returns the machine-wide data directory for an application:
// %ProgramData%\<windowsName> on Windows and ~/<unixName> elsewhere.
func SharedDataDir(windowsName, unixName string) (string, error) {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, windowsName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, unixName), nil
}

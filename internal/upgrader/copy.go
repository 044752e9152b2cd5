package upgrader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/purduesigbots/pros-cli/internal/platform"
)

// excludedNames are never copied out of a kernel directory.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// copyDir recursively copies src to dst. Symlinks are followed; other
// special files are skipped.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Stat(srcPath)
		if err != nil {
			return err
		}

		switch {
		case info.IsDir():
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, overwriting dst and
// carrying over the source permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	if err := os.WriteFile(dst, data, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	// WriteFile keeps the mode of a file it overwrites.
	return platform.Chmod(dst, srcInfo.Mode().Perm())
}

package upgrader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/purduesigbots/pros-cli/internal/platform"
)

// ReplaceInFile rewrites path with every occurrence of old replaced by
// replacement. Lines are processed one at a time so line endings survive
// untouched. The new content is written to a temporary file in the same
// directory which then takes the original's place and permissions.
func ReplaceInFile(path, old, replacement string) (err error) {
	if old == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(tmp)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			if _, err = writer.WriteString(strings.ReplaceAll(line, old, replacement)); err != nil {
				return err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	if err = writer.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = src.Close(); err != nil {
		return err
	}

	if err = os.Remove(path); err != nil {
		return err
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return err
	}
	return platform.Chmod(path, info.Mode().Perm())
}

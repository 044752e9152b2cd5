package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/purduesigbots/pros-cli/internal/upgrader"
)

// Target is the project directory a run operates on.
type Target struct {
	Dir         string
	ProjectName string
	Exists      bool
}

// ResolveTarget makes dir absolute (empty means the working directory) and
// records whether it already exists. name overrides the project name, which
// otherwise is the final path segment.
func ResolveTarget(dir, name string) (*Target, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	if name == "" {
		name = filepath.Base(abs)
		if name == string(filepath.Separator) || name == "." || name == filepath.VolumeName(abs) {
			return nil, fmt.Errorf("%w from %s; pass --name", ErrNoProjectName, abs)
		}
	}

	t := &Target{Dir: abs, ProjectName: name}
	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	case err == nil:
		t.Exists = true
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("checking %s: %w", abs, err)
	}
	return t, nil
}

// Operation returns Create when the directory is absent or force is set,
// and Upgrade otherwise.
func (t *Target) Operation(force bool) upgrader.Operation {
	if force || !t.Exists {
		return upgrader.OperationCreate
	}
	return upgrader.OperationUpgrade
}

package scaffold

import "errors"

var (
	// ErrNotDirectory is returned when the target path exists but is not a
	// directory.
	ErrNotDirectory = errors.New("target is not a directory")

	// ErrNoProjectName is returned when no project name can be derived from
	// the target path.
	ErrNoProjectName = errors.New("cannot derive project name")
)

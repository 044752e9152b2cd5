package upgrader

import "errors"

var (
	// ErrUnsafePath is returned for layout paths that are absolute or leave
	// the project directory.
	ErrUnsafePath = errors.New("path escapes project directory")

	// ErrInvalidManifest is returned when a kernel manifest does not match
	// the upgrader manifest schema.
	ErrInvalidManifest = errors.New("invalid upgrader manifest")

	// ErrHookFailed is returned when a hook command exits non-zero.
	ErrHookFailed = errors.New("hook failed")
)

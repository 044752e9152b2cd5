package kernel

import "errors"

var (
	// ErrNoKernel is returned when no identifier could be determined from
	// an explicit request, the remote site, or the local cache.
	ErrNoKernel = errors.New("no kernel determined")

	// ErrKernelUnavailable is returned when an identifier was chosen but the
	// cache still has no entry for it after the download attempt.
	ErrKernelUnavailable = errors.New("could not obtain kernel")

	// ErrInvalidID is returned for identifiers that are empty, contain
	// whitespace, or are not a single path segment.
	ErrInvalidID = errors.New("invalid kernel identifier")

	// ErrUnsafeArchivePath is returned when an archive entry would be
	// extracted outside the kernel directory.
	ErrUnsafeArchivePath = errors.New("archive entry escapes kernel directory")

	// ErrNoSite is returned by fetch operations when no site is configured.
	ErrNoSite = errors.New("no kernel site configured")
)

package upgrader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Strategy materializes a project directory from a kernel directory.
type Strategy interface {
	// Create builds targetDir as a fresh copy of the kernel template named
	// projectName, replacing anything already there.
	Create(ctx context.Context, targetDir, kernelDir, projectName string) error
	// Upgrade overwrites the kernel-owned files of an existing project.
	Upgrade(ctx context.Context, targetDir, kernelDir, projectName string) error
}

// Operation names a Strategy method.
type Operation string

// Operations a Strategy supports.
const (
	OperationCreate  Operation = "create"
	OperationUpgrade Operation = "upgrade"
)

// Apply invokes op on s.
func Apply(ctx context.Context, s Strategy, op Operation, targetDir, kernelDir, projectName string) error {
	switch op {
	case OperationCreate:
		return s.Create(ctx, targetDir, kernelDir, projectName)
	case OperationUpgrade:
		return s.Upgrade(ctx, targetDir, kernelDir, projectName)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

// Name describes s for display.
func Name(s Strategy) string {
	switch v := s.(type) {
	case *KernelStrategy:
		return "kernel (" + filepath.Base(v.ManifestPath) + ")"
	case *DefaultStrategy:
		return "default"
	default:
		return fmt.Sprintf("%T", s)
	}
}

// Layout is the configuration data the built-in file handling works from.
// Paths use forward slashes and are relative to the project root.
type Layout struct {
	// ManagedFiles are the kernel-owned files Upgrade overwrites.
	ManagedFiles []string
	// MetadataFile holds the project name placeholder.
	MetadataFile string
	// Placeholder is replaced with the project name on Create.
	Placeholder string
}

// DefaultLayout returns the layout of a stock PROS kernel.
func DefaultLayout() Layout {
	return Layout{
		ManagedFiles: []string{
			"firmware/libccos.a",
			"firmware/uniflash.jar",
			"include/API.h",
			"src/Makefile",
			"Makefile",
		},
		MetadataFile: ".project",
		Placeholder:  "Default_VeX_Cortex",
	}
}

// Merge returns l with every non-empty field of override applied.
func (l Layout) Merge(override Layout) Layout {
	if len(override.ManagedFiles) > 0 {
		l.ManagedFiles = append([]string(nil), override.ManagedFiles...)
	}
	if override.MetadataFile != "" {
		l.MetadataFile = override.MetadataFile
	}
	if override.Placeholder != "" {
		l.Placeholder = override.Placeholder
	}
	return l
}

// Validate checks that every path in l stays inside the project.
func (l Layout) Validate() error {
	for _, p := range l.ManagedFiles {
		if err := checkRelative(p); err != nil {
			return err
		}
	}
	if l.MetadataFile != "" {
		return checkRelative(l.MetadataFile)
	}
	return nil
}

func checkRelative(p string) error {
	slashed := strings.ReplaceAll(p, `\`, "/")
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(slashed, "/") {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, p)
		}
	}
	return nil
}

// within joins a slash separated relative path onto root.
func within(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

package upgrader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/purduesigbots/pros-cli/internal/notify"
)

// DefaultStrategy is the built-in Strategy. It copies the whole kernel
// template on Create and only the layout's managed files on Upgrade.
type DefaultStrategy struct {
	Layout Layout
	Out    io.Writer
}

// NewDefaultStrategy returns a DefaultStrategy printing progress to out.
func NewDefaultStrategy(layout Layout, out io.Writer) *DefaultStrategy {
	if out == nil {
		out = io.Discard
	}
	return &DefaultStrategy{Layout: layout, Out: out}
}

// Create removes targetDir if present, copies the kernel tree into it and
// replaces the placeholder in the metadata file with projectName.
func (s *DefaultStrategy) Create(ctx context.Context, targetDir, kernelDir, projectName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Layout.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(kernelDir); err != nil {
		return fmt.Errorf("kernel directory: %w", err)
	}

	if _, err := os.Stat(targetDir); err == nil {
		notify.Activityf(s.Out, "Directory already exists, removing.")
		if err := os.RemoveAll(targetDir); err != nil {
			return fmt.Errorf("removing existing project at %s: %w", targetDir, err)
		}
	}

	kernelID := filepath.Base(kernelDir)
	notify.Activityf(s.Out, "Copying from %s...", kernelID)
	if err := copyDir(kernelDir, targetDir); err != nil {
		return fmt.Errorf("copying %s to %s: %w", kernelDir, targetDir, err)
	}

	if s.Layout.MetadataFile != "" && s.Layout.Placeholder != "" {
		notify.Activityf(s.Out, "Fixing template files")
		metadata := within(targetDir, s.Layout.MetadataFile)
		if err := ReplaceInFile(metadata, s.Layout.Placeholder, projectName); err != nil {
			return fmt.Errorf("fixing template file %s: %w", s.Layout.MetadataFile, err)
		}
	}

	notify.Successf(s.Out, "Created project %s from %s", projectName, kernelID)
	return nil
}

// Upgrade overwrites each managed file in targetDir with the kernel's copy.
// Everything else in the project is left alone.
func (s *DefaultStrategy) Upgrade(ctx context.Context, targetDir, kernelDir, _ string) error {
	if err := s.Layout.Validate(); err != nil {
		return err
	}

	for _, rel := range s.Layout.ManagedFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		notify.Activityf(s.Out, "Upgrading %s", rel)
		dst := within(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", rel, err)
		}
		if err := copyFile(within(kernelDir, rel), dst); err != nil {
			return fmt.Errorf("upgrading %s: %w", rel, err)
		}
	}

	notify.Successf(s.Out, "Upgraded project to %s", filepath.Base(kernelDir))
	return nil
}

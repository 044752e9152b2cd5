package upgrader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// KernelStrategy runs a kernel's manifest: the built-in file handling with
// the manifest's layout (unless disabled), followed by the manifest's hook
// for the operation.
type KernelStrategy struct {
	Manifest     *Manifest
	ManifestPath string

	builtin *DefaultStrategy
	hooks   *HookRunner
}

// Create builds targetDir from the kernel and then runs the create hook.
// With the built-in handling disabled the hook is responsible for the whole
// project; targetDir is only made to exist so the hook can run in it.
func (s *KernelStrategy) Create(ctx context.Context, targetDir, kernelDir, projectName string) error {
	if s.Manifest.UsesBuiltin() {
		if err := s.builtin.Create(ctx, targetDir, kernelDir, projectName); err != nil {
			return err
		}
	} else if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return s.runHook(ctx, OperationCreate, targetDir, kernelDir, projectName)
}

// Upgrade refreshes the managed files and then runs the upgrade hook.
func (s *KernelStrategy) Upgrade(ctx context.Context, targetDir, kernelDir, projectName string) error {
	if s.Manifest.UsesBuiltin() {
		if err := s.builtin.Upgrade(ctx, targetDir, kernelDir, projectName); err != nil {
			return err
		}
	}
	return s.runHook(ctx, OperationUpgrade, targetDir, kernelDir, projectName)
}

func (s *KernelStrategy) runHook(ctx context.Context, op Operation, targetDir, kernelDir, projectName string) error {
	argv := s.Manifest.Hooks.For(op)
	if len(argv) == 0 {
		return nil
	}
	return s.hooks.Run(ctx, argv, HookContext{
		Operation:   op,
		ProjectDir:  targetDir,
		ProjectName: projectName,
		KernelID:    filepath.Base(kernelDir),
		KernelDir:   kernelDir,
	})
}

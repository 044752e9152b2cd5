package upgrader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/purduesigbots/pros-cli/internal/branding"
)

// HookContext is what a hook learns about the operation it runs for.
type HookContext struct {
	Operation   Operation
	ProjectDir  string
	ProjectName string
	KernelID    string
	KernelDir   string
}

// HookRunner executes manifest hook commands as subprocesses.
type HookRunner struct {
	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes argv in hc.ProjectDir. argv[0] is looked up on PATH unless it
// contains a path separator, in which case a relative program resolves
// against the kernel directory.
func (h *HookRunner) Run(ctx context.Context, argv []string, hc HookContext) error {
	if len(argv) == 0 {
		return nil
	}

	program := resolveProgram(argv[0], hc.KernelDir)
	cmd := exec.CommandContext(ctx, program, argv[1:]...)
	cmd.Dir = hc.ProjectDir
	cmd.Env = hookEnv(os.Environ(), hc)

	cmd.Stdout = h.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = h.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s hook %q exited with status %d", ErrHookFailed, hc.Operation, argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("running %s hook %q: %w", hc.Operation, argv[0], err)
	}
	return nil
}

func resolveProgram(name, kernelDir string) string {
	if filepath.IsAbs(name) || !strings.ContainsAny(name, `/\`) {
		return name
	}
	return filepath.Join(kernelDir, filepath.FromSlash(name))
}

// hookEnv returns env with the hook variables set.
func hookEnv(env []string, hc HookContext) []string {
	env = setEnv(env, branding.EnvVar("OPERATION"), string(hc.Operation))
	env = setEnv(env, branding.EnvVar("PROJECT_DIR"), hc.ProjectDir)
	env = setEnv(env, branding.EnvVar("PROJECT_NAME"), hc.ProjectName)
	env = setEnv(env, branding.EnvVar("KERNEL"), hc.KernelID)
	env = setEnv(env, branding.EnvVar("KERNEL_DIR"), hc.KernelDir)
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

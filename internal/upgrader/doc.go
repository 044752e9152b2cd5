// Package upgrader materializes PROS projects from a cached kernel. A
// Strategy creates a fresh project from the kernel template or upgrades the
// kernel-owned files of an existing one. The built-in DefaultStrategy works
// from a fixed Layout; a kernel may ship a <kernel>.yaml manifest next to its
// files to override that layout and add hook commands, which the Provider
// loads as a KernelStrategy.
package upgrader

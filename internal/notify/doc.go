// Package notify prints styled, single-line status messages for the CLI.
// Each message type has its own symbol and color; color is disabled
// automatically when the writer is not a terminal.
package notify

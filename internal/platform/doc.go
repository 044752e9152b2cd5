// Package platform hides the differences between Windows and Unix for the
// filesystem work the CLI does: where shared data lives and how permission
// bits are applied.
package platform

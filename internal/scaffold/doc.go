// Package scaffold drives one create-or-upgrade run: it resolves the kernel,
// picks the strategy for it, works out whether the target directory is a new
// or existing project and hands the work to the strategy.
package scaffold

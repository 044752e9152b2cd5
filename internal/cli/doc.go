// Package cli defines the Cobra command tree for the pros CLI. The root
// command creates or upgrades a project; each other file registers one
// subcommand with it. Commands only parse flags, build options and format
// output; the work happens in the kernel, upgrader and scaffold packages.
package cli

// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GoModule      string `yaml:"go_module"`
	KernelSite    string `yaml:"kernel_site"`
	KernelDirName string `yaml:"kernel_dir_name"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "pros",
			DisplayName:   "PROS",
			Description:   "Create and upgrade PROS projects",
			HomeDir:       ".pros",
			EnvPrefix:     "PROS",
			GoModule:      "github.com/purduesigbots/pros-cli",
			KernelSite:    "https://raw.githubusercontent.com/purduesigbots/purdueros-kernels/master/",
			KernelDirName: "kernels",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "pros").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "PROS").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME holding the config file.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PROS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// KernelSite returns the default site kernels are downloaded from.
func KernelSite() string { load(); return defaults.KernelSite }

// KernelDirName returns the name of the kernel cache directory.
func KernelDirName() string { load(); return defaults.KernelDirName }

// UserAgent returns the User-Agent header sent with kernel downloads.
func UserAgent() string { load(); return defaults.CLIName + "-cli" }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("KERNELS") → "PROS_KERNELS".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

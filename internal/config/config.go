package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/purduesigbots/pros-cli/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeySite                = "site"
	KeyKernelDir           = "kernel_dir"
	KeyUpgradeFiles        = "upgrade.files"
	KeyUpgradeMetadataFile = "upgrade.metadata_file"
	KeyUpgradePlaceholder  = "upgrade.placeholder"
)

// Keys lists every key `config set` accepts.
var Keys = []string{
	KeySite,
	KeyKernelDir,
	KeyUpgradeFiles,
	KeyUpgradeMetadataFile,
	KeyUpgradePlaceholder,
}

// Dir returns the path to the config directory (~/.pros/).
// PROS_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pros/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to env vars with dots replaced, so upgrade.placeholder
// is read from PROS_UPGRADE_PLACEHOLDER.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetStringSlice returns a list value by key. A comma separated string,
// as set from the command line or environment, is split into its parts.
func GetStringSlice(key string) []string {
	raw := viper.Get(key)
	if s, ok := raw.(string); ok {
		return splitList(s)
	}
	return viper.GetStringSlice(key)
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
// List keys accept a comma separated value.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyUpgradeFiles {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

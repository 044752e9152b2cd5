package cli

import (
	"fmt"
	"strings"

	"github.com/purduesigbots/pros-cli/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write PROS configuration stored at ~/.pros/config.yaml.

Keys:
  site                   kernel site URL
  kernel_dir             kernel cache directory
  upgrade.files          comma separated files replaced on upgrade
  upgrade.metadata_file  file holding the project name
  upgrade.placeholder    template project name replaced on create`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkKey(key); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := checkKey(key); err != nil {
			return err
		}
		value := config.Get(key)
		if key == config.KeyUpgradeFiles {
			value = strings.Join(config.GetStringSlice(key), ",")
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func checkKey(key string) error {
	if !config.IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(config.Keys, ", "))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmixer/internal/config"
)

var forceInit bool

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

// configInitCmd writes the default configuration.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	// The file may not exist yet, so loading it is skipped.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
		return config.SaveConfig(path)
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

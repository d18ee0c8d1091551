package cmd

import (
	"github.com/spf13/cobra"
)

// obfuscateCmd represents the base command for compression actions
var obfuscateCmd = &cobra.Command{
	Use:   "obfuscate",
	Short: "Compresses JavaScript files, directories or configured groups",
	Long: `Provides subcommands to compress individual files, entire directories,
or the groups listed in the configuration file.

Example:
  jsmixer obfuscate file input.js -o output.js
  jsmixer obfuscate dir ./src -o ./dist --clean
  jsmixer obfuscate group -o ./bundles`,
	Aliases: []string{"ob"},
}

func init() {
	obfuscateCmd.AddCommand(fileCmd)
	obfuscateCmd.AddCommand(dirCmd)
	obfuscateCmd.AddCommand(groupCmd)
}

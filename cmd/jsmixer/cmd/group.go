package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groupOutputDir string

// groupCmd represents the obfuscate group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Build the groups listed in the configuration file",
	Long: `Reads the groups section of the configuration file, where each group
names an ordered list of source files relative to the configuration file,
and compresses all of them as one batch. Each group is written to the
output directory under its name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Groups) == 0 {
			return fmt.Errorf("no groups configured")
		}
		octx, err := newContext()
		if err != nil {
			return err
		}
		banner("Building %d groups\n", len(cfg.Groups))
		if _, err := octx.WriteGroups(groupOutputDir); err != nil {
			return err
		}
		return octx.Save()
	},
}

func init() {
	groupCmd.Flags().StringVarP(&groupOutputDir, "output", "o", ".", "Output directory")
}

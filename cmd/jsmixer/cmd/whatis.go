package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmixer/internal/bag"
)

var (
	whatisBag     string
	whatisBackend string
)

// whatisCmd represents the whatis command
var whatisCmd = &cobra.Command{
	Use:   "whatis <short_name>",
	Short: "Looks up the original names for a given short name",
	Long: `Loads the identifier map saved by previous runs and prints every original
identifier that was renamed to the provided short name.

The map configured in the configuration file is used unless --bag is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		short := args[0]

		path, backend := cfg.BagPath(), cfg.Bags.Backend
		if whatisBag != "" {
			path = whatisBag
		}
		if whatisBackend != "" {
			backend = whatisBackend
		}
		store, err := bag.NewStore(backend, path)
		if err != nil {
			return err
		}
		m, err := store.Load()
		if err != nil {
			return fmt.Errorf("error loading identifier map from %s: %w", path, err)
		}
		if !cfg.Silent {
			fmt.Printf("Searching for original name of '%s' in %s\n", short, path)
		}

		names := bag.Reverse(m, short)
		if len(names) == 0 {
			fmt.Fprintf(os.Stderr, "Error: Short name '%s' not found in the identifier map.\n", short)
			return fmt.Errorf("name not found")
		}
		for _, name := range names {
			fmt.Printf("Found: '%s'\n", name)
		}
		return nil
	},
}

func init() {
	whatisCmd.Flags().StringVar(&whatisBag, "bag", "", "Identifier map file (default: bags.path from the config)")
	whatisCmd.Flags().StringVar(&whatisBackend, "backend", "", "Identifier map backend, json or bolt (default: bags.backend from the config)")
}

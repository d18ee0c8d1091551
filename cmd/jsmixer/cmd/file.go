package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmixer/internal/obfuscator"
)

var outputFile string // Flag variable for output file path

// fileCmd represents the obfuscate file command
var fileCmd = &cobra.Command{
	Use:   "file <js_file_path>",
	Short: "Compress a single JavaScript file",
	Long: `Reads a single JavaScript file, compresses it with the shared identifier
map, and outputs the result to stdout or a specified file. The updated map
is saved afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		octx, err := newContext()
		if err != nil {
			return err
		}

		banner("Processing file: %s\n", filePath)
		outputContent, err := octx.ProcessFile(filePath)
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", filePath, err)
		}

		if outputFile != "" {
			if !cfg.Silent {
				fmt.Printf("Info: Writing output to file: %s\n", outputFile)
			}
			if err := os.WriteFile(outputFile, []byte(obfuscator.Terminate(outputContent)), 0644); err != nil {
				return fmt.Errorf("error writing to output file %s: %w", outputFile, err)
			}
		} else {
			fmt.Println(obfuscator.Terminate(outputContent))
		}

		return octx.Save()
	},
}

func init() {
	fileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	outputDir string // Flag variable for output directory
	cleanMode bool   // Flag variable for cleaning target directory
)

// dirCmd represents the obfuscate dir command
var dirCmd = &cobra.Command{
	Use:   "dir <source_directory>",
	Short: "Compress every JavaScript file below a directory",
	Long: `Recursively scans the source directory for scripts (based on configured
extensions) and compresses them as one batch, so an identifier gets the
same short name in every file. Each result is written to the target
directory under a flat name: its path with separators replaced by
underscores, for example src/lib/util.js becomes src_lib_util.js.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if outputDir == "" {
			return fmt.Errorf("output directory (-o, --output) is required for directory obfuscation")
		}
		sourceDir := args[0]
		info, err := os.Stat(sourceDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("source directory '%s' not found", sourceDir)
			}
			return fmt.Errorf("error checking source directory '%s': %w", sourceDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source path '%s' is not a directory", sourceDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceDir := args[0]
		banner("--- Directory Compression ---\nSource Directory: %s\nTarget Directory: %s\n", sourceDir, outputDir)

		if cleanMode {
			if err := cleanTarget(outputDir); err != nil {
				return err
			}
		}

		octx, err := newContext()
		if err != nil {
			return err
		}
		written, err := octx.ProcessDirectory(sourceDir, outputDir)
		if err != nil {
			if cfg.AbortOnError {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if saveErr := octx.Save(); saveErr != nil {
			return saveErr
		}
		if !cfg.Silent {
			fmt.Printf("Info: %d files written to %s\n", len(written), outputDir)
		}
		return nil
	},
}

// cleanTarget removes the target directory, refusing paths that would
// wipe a root, the working directory or its parent.
func cleanTarget(targetPath string) error {
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		return nil
	}
	clean := filepath.Clean(targetPath)
	isRoot := clean == filepath.VolumeName(clean)+`\`
	if runtime.GOOS != "windows" {
		isRoot = clean == "/"
	}
	if isRoot || clean == "." || clean == ".." {
		return fmt.Errorf("refusing to clean potentially dangerous path: %s", targetPath)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("failed to clean target directory %s: %w", targetPath, err)
	}
	if !cfg.Silent {
		fmt.Printf("Info: Target directory %s cleaned.\n", targetPath)
	}
	return nil
}

func init() {
	dirCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (required)")
	dirCmd.Flags().BoolVar(&cleanMode, "clean", false, "Remove the target directory before compressing")
}

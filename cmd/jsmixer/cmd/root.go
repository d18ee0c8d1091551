// Package cmd implements the command line interface for the application.
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/internal/obfuscator"
)

var (
	cfgFile string         // Variable to hold the config file path from the flag
	cfg     *config.Config // Global variable to hold the loaded configuration

	// Flag variables mapped to config fields for override
	silentMode   bool // -> cfg.Silent
	abortOnError bool // -> cfg.AbortOnError
	level        int  // -> cfg.Obfuscation.Level
	beautify     bool // -> cfg.Output.Beautify
	debugMode    bool // -> cfg.DebugMode
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsmixer",
	Short: "A CLI tool to compress JavaScript and shorten private identifiers.",
	Long: `jsmixer removes whitespace and comments from JavaScript and renames
identifiers with a leading underscore to short names. The mapping from
original to short names is saved, so repeated runs stay consistent.`,
	SilenceUsage: true,
	// PersistentPreRunE loads the configuration before any subcommand runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			cfg = loadedCfg
			if err := applyFlagOverrides(cfg, cmd); err != nil {
				return err
			}
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// applyFlagOverrides applies command-line flag values to the config struct.
// Only overrides if the flag was explicitly set by the user via cmd.Flags().Changed().
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) error {
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silentMode
	}
	if cmd.Flags().Changed("abort-on-error") {
		cfg.AbortOnError = abortOnError
	}
	if cmd.Flags().Changed("level") {
		cfg.Obfuscation.Level = level
	}
	if cmd.Flags().Changed("beautify") {
		cfg.Output.Beautify = beautify
	}
	if cmd.Flags().Changed("debug") {
		cfg.DebugMode = debugMode
		config.Debug = debugMode
	}
	return cfg.Validate()
}

// newContext creates the obfuscation context and loads its identifier map.
func newContext() (*obfuscator.Context, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	octx, err := obfuscator.NewContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize obfuscation context: %w", err)
	}
	if err := octx.Load(); err != nil {
		return nil, err
	}
	return octx, nil
}

// banner prints a line only for interactive, non-silent runs so piped
// output stays clean.
func banner(format string, args ...interface{}) {
	if cfg != nil && cfg.Silent {
		return
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		config.PrintInfo(format, args...)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./"+config.DefaultConfigFile+")")

	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Suppress informational output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&abortOnError, "abort-on-error", false, "Fail when any fragment fails (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&level, "level", "l", 3, "Renaming level 0-3 (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&beautify, "beautify", "b", false, "Produce indented, readable output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log timings and skipped paths (overrides config)")

	rootCmd.AddCommand(obfuscateCmd)
	rootCmd.AddCommand(whatisCmd)
	rootCmd.AddCommand(configCmd)
}

// Package api provides the public API for using the JavaScript compressor
// as a library.
//
// An Obfuscator compresses code strings, files, directories and the groups
// of a configuration file. Identifiers with a leading underscore are
// renamed to short names; the mapping is kept in an identifier map that is
// loaded when the Obfuscator is created and written by SaveContext, so the
// same identifier keeps its short name across runs.
//
// Basic usage example:
//
//	obf, err := api.NewObfuscator(api.Options{ConfigPath: "jsmixer.yaml"})
//	if err != nil {
//	    log.Fatalf("Failed to create obfuscator: %v", err)
//	}
//
//	result, err := obf.ObfuscateCode("var _count = 0; _count++;")
//	if err != nil {
//	    log.Fatalf("Failed to obfuscate code: %v", err)
//	}
//
//	fmt.Println(result) // var a=0;a++
package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/whit3rabbit/jsmixer/internal/bag"
	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/internal/obfuscator"
)

// PrintInfo prints formatted information to stdout, respecting the Testing flag.
// This function forwards to the internal config.PrintInfo function.
func PrintInfo(format string, args ...interface{}) {
	config.PrintInfo(format, args...)
}

// Obfuscator is the compression engine. It holds the configuration and the
// identifier map shared by all of its calls.
type Obfuscator struct {
	// Context holds the identifier map and its store
	Context *obfuscator.Context
	// Config holds the configuration settings
	Config *config.Config
}

// Options represents configuration options for creating a new Obfuscator instance.
type Options struct {
	// ConfigPath is the path to a YAML configuration file.
	// If empty, jsmixer.yaml in the working directory or the defaults are used.
	ConfigPath string

	// Silent suppresses informational messages.
	Silent bool

	// ConfigOverrides sets configuration values by dotted key, for example
	// "obfuscation.level" or "output.beautify". They take precedence over
	// the file and the environment.
	ConfigOverrides map[string]interface{}
}

// NewObfuscator creates a new Obfuscator and loads its identifier map.
//
// Returns an error if the configuration is invalid or the identifier map
// cannot be read.
func NewObfuscator(options Options) (*Obfuscator, error) {
	cfg, err := config.LoadConfigWithOverrides(options.ConfigPath, options.ConfigOverrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if options.Silent {
		cfg.Silent = true
	}

	ctx, err := obfuscator.NewContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create obfuscation context: %w", err)
	}
	if err := ctx.Load(); err != nil {
		return nil, err
	}

	return &Obfuscator{
		Context: ctx,
		Config:  cfg,
	}, nil
}

// ObfuscateCode compresses a string of JavaScript code.
func (o *Obfuscator) ObfuscateCode(code string) (string, error) {
	result, err := o.Context.ProcessCode(code)
	if err != nil {
		return "", fmt.Errorf("failed to obfuscate code: %w", err)
	}
	return result, nil
}

// ObfuscateFile compresses a JavaScript file and returns the code.
func (o *Obfuscator) ObfuscateFile(filePath string) (string, error) {
	result, err := o.Context.ProcessFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to obfuscate file %s: %w", filePath, err)
	}
	return result, nil
}

// ObfuscateFileToFile compresses a JavaScript file and writes the result
// to another file.
func (o *Obfuscator) ObfuscateFileToFile(inputPath, outputPath string) error {
	result, err := o.ObfuscateFile(inputPath)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	if err := os.WriteFile(outputPath, []byte(obfuscator.Terminate(result)), 0644); err != nil {
		return fmt.Errorf("failed to write to output file %s: %w", outputPath, err)
	}
	return nil
}

// ObfuscateDirectory compresses every script below inputDir as one batch
// and writes the results, flattened, to outputDir. The identifier map is
// saved afterwards. It returns the written paths.
func (o *Obfuscator) ObfuscateDirectory(inputDir, outputDir string) ([]string, error) {
	inputInfo, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input directory %s: %w", inputDir, err)
	}
	if !inputInfo.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", inputDir)
	}

	written, err := o.Context.ProcessDirectory(inputDir, outputDir)
	if err != nil && o.Config.AbortOnError {
		return written, err
	}
	if saveErr := o.Context.Save(); saveErr != nil {
		return written, fmt.Errorf("failed to save obfuscation context: %w", saveErr)
	}
	return written, err
}

// ObfuscateGroups builds the configured groups and writes each one to
// outputDir. The identifier map is saved afterwards.
func (o *Obfuscator) ObfuscateGroups(outputDir string) ([]string, error) {
	written, err := o.Context.WriteGroups(outputDir)
	if err != nil {
		return written, err
	}
	if err := o.Context.Save(); err != nil {
		return written, fmt.Errorf("failed to save obfuscation context: %w", err)
	}
	return written, nil
}

// LoadContext reloads the identifier map from its store.
func (o *Obfuscator) LoadContext() error {
	return o.Context.Load()
}

// SaveContext writes the identifier map to its store.
func (o *Obfuscator) SaveContext() error {
	return o.Context.Save()
}

// LookupObfuscatedName returns the short name assigned to an original
// identifier.
func (o *Obfuscator) LookupObfuscatedName(name string) (string, error) {
	short, ok := o.Context.Prior[name]
	if !ok {
		return "", fmt.Errorf("name not found in context: %s", name)
	}
	return short, nil
}

// LookupOriginalNames returns the original identifiers that were renamed
// to short, sorted.
func (o *Obfuscator) LookupOriginalNames(short string) ([]string, error) {
	names := bag.Reverse(o.Context.Prior, short)
	if len(names) == 0 {
		return nil, fmt.Errorf("short name not found in context: %s", short)
	}
	return names, nil
}

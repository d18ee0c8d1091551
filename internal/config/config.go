package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is
// given.
const DefaultConfigFile = "jsmixer.yaml"

// Line modes decide how fragment outputs are joined.
const (
	LineModeJoined   = 0 // joined with nothing
	LineModeNewlines = 1 // joined with ";\n"
)

// --- Nested Configuration Structs ---

// ObfuscationConfig controls identifier renaming.
type ObfuscationConfig struct {
	// Level 0 disables renaming. 1 renames "_x", 2 also "__x", 3 every
	// name with a leading underscore.
	Level            int  `yaml:"level" mapstructure:"level"`
	LineMode         int  `yaml:"line_mode" mapstructure:"line_mode"`
	StrictSemicolons bool `yaml:"strict_semicolons" mapstructure:"strict_semicolons"`
}

// OutputConfig controls code generation.
type OutputConfig struct {
	Beautify     bool     `yaml:"beautify" mapstructure:"beautify"`
	IndentStart  int      `yaml:"indent_start" mapstructure:"indent_start"`
	IndentLevel  int      `yaml:"indent_level" mapstructure:"indent_level"`
	QuoteKeys    bool     `yaml:"quote_keys" mapstructure:"quote_keys"`
	SpaceColon   bool     `yaml:"space_colon" mapstructure:"space_colon"`
	ASCIIOnly    bool     `yaml:"ascii_only" mapstructure:"ascii_only"`
	InlineScript bool     `yaml:"inline_script" mapstructure:"inline_script"`
	MaxLineLen   int      `yaml:"max_line_len" mapstructure:"max_line_len"`
	Extensions   []string `yaml:"extensions" mapstructure:"extensions"` // file extensions treated as JavaScript in directory mode
}

// BagsConfig locates the persisted identifier map.
type BagsConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Backend string `yaml:"backend" mapstructure:"backend"` // "json" or "bolt"
}

// Config holds all configuration settings for the obfuscator.
// Struct tags control how Viper maps config file keys and environment variables.
type Config struct {
	Obfuscation ObfuscationConfig `yaml:"obfuscation" mapstructure:"obfuscation"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Bags        BagsConfig        `yaml:"bags" mapstructure:"bags"`

	// Groups maps a bundle name to its ordered source files, relative to
	// the directory of the config file.
	Groups map[string][]string `yaml:"groups" mapstructure:"groups"`

	// General behavior
	Silent       bool     `yaml:"silent" mapstructure:"silent"`                 // Suppress informational messages
	DebugMode    bool     `yaml:"debug_mode" mapstructure:"debug_mode"`         // Enable verbose debug logging
	AbortOnError bool     `yaml:"abort_on_error" mapstructure:"abort_on_error"` // Stop on the first fragment failure
	SkipPaths    []string `yaml:"skip" mapstructure:"skip"`                     // Glob patterns ignored in directory mode

	// Dir is the directory of the loaded config file; group paths are
	// relative to it.
	Dir string `yaml:"-" mapstructure:"-"`
}

// Default values for the configuration, keyed the way viper sees them.
var defaults = map[string]interface{}{
	"obfuscation.level":             3,
	"obfuscation.line_mode":         LineModeNewlines,
	"obfuscation.strict_semicolons": false,
	"output.beautify":               false,
	"output.indent_start":           0,
	"output.indent_level":           4,
	"output.quote_keys":             false,
	"output.space_colon":            false,
	"output.ascii_only":             false,
	"output.inline_script":          false,
	"output.max_line_len":           0,
	"output.extensions":             []string{"js"},
	"bags.path":                     "names.json",
	"bags.backend":                  "json",
	"silent":                        false,
	"debug_mode":                    false,
	"abort_on_error":                false,
	"skip":                          []string{"node_modules/*", "*.git*", "*.min.js"},
}

var (
	// Testing controls whether output is suppressed for testing purposes
	Testing bool
	// Debug enables PrintDebug output.
	Debug bool
)

// PrintInfo prints an informational message unless Testing is set.
func PrintInfo(format string, args ...interface{}) {
	if !Testing {
		fmt.Printf(format, args...)
	}
}

// PrintWarn prints a warning to stderr unless Testing is set.
func PrintWarn(format string, args ...interface{}) {
	if !Testing {
		fmt.Fprintf(os.Stderr, "Warning: "+format, args...)
	}
}

// PrintDebug logs a debug trace when Debug is set.
func PrintDebug(format string, args ...interface{}) {
	if Debug && !Testing {
		log.Printf("DEBUG: "+format, args...)
	}
}

// LoadConfig reads configuration from file and environment variables, then
// returns a filled Config struct. An empty path looks for jsmixer.yaml in
// the working directory and falls back to defaults when it is absent.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithOverrides(configPath, nil)
}

// LoadConfigWithOverrides is LoadConfig with values that take precedence
// over the file and the environment. Keys are dotted, as in
// "obfuscation.level".
func LoadConfigWithOverrides(configPath string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("JSMIXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		bindEnv(v, key)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
		configPath = ""
	} else {
		return nil, fmt.Errorf("error checking config file %s: %w", configPath, err)
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if configPath != "" {
		cfg.Dir = filepath.Dir(configPath)
		if !cfg.Silent {
			PrintInfo("Info: Loaded configuration from %s\n", configPath)
		}
	} else {
		cfg.Dir = "."
		if !cfg.Silent {
			PrintInfo("Info: Configuration file '%s' not found, using default settings.\n", DefaultConfigFile)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Debug = cfg.DebugMode
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Obfuscation.Level < 0 || c.Obfuscation.Level > 3 {
		return fmt.Errorf("invalid obfuscation level %d: must be between 0 and 3", c.Obfuscation.Level)
	}
	if c.Obfuscation.LineMode != LineModeJoined && c.Obfuscation.LineMode != LineModeNewlines {
		return fmt.Errorf("invalid line mode %d: must be 0 or 1", c.Obfuscation.LineMode)
	}
	switch c.Bags.Backend {
	case "", "json", "bolt":
	default:
		return fmt.Errorf("invalid bag backend %q: must be json or bolt", c.Bags.Backend)
	}
	if c.Output.IndentLevel < 0 || c.Output.IndentStart < 0 || c.Output.MaxLineLen < 0 {
		return errors.New("indentation and line length settings must not be negative")
	}
	return nil
}

// GroupList returns the group names in sorted order, so batches are built
// the same way on every run.
func (c *Config) GroupList() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BagPath returns the identifier map location, resolved against Dir.
func (c *Config) BagPath() string {
	if filepath.IsAbs(c.Bags.Path) || c.Dir == "" {
		return c.Bags.Path
	}
	return filepath.Join(c.Dir, c.Bags.Path)
}

// SaveConfig saves the default configuration to a file.
func SaveConfig(configPath string) error {
	cfg := DefaultConfig()
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling default config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory for config file %s: %w", configPath, err)
	}
	err = os.WriteFile(configPath, yamlData, 0644)
	if err != nil {
		return fmt.Errorf("error writing config file %s: %w", configPath, err)
	}
	PrintInfo("Info: Saved default configuration to %s\n", configPath)
	return nil
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() *Config {
	return &Config{
		Obfuscation: ObfuscationConfig{
			Level:    3,
			LineMode: LineModeNewlines,
		},
		Output: OutputConfig{
			IndentLevel: 4,
			Extensions:  []string{"js"},
		},
		Bags: BagsConfig{
			Path:    "names.json",
			Backend: "json",
		},
		Groups:    map[string][]string{},
		SkipPaths: []string{"node_modules/*", "*.git*", "*.min.js"},
		Dir:       ".",
	}
}

// Helper to explicitly bind environment variables, handling potential key mismatches
func bindEnv(v *viper.Viper, key string) {
	envKey := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	_ = v.BindEnv(key, "JSMIXER_"+envKey)
}

// Package obfuscator orchestrates the overall process and holds shared context.
package obfuscator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/whit3rabbit/jsmixer/internal/analyzer"
	"github.com/whit3rabbit/jsmixer/internal/bag"
	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/internal/printer"
)

// firstGroupKey numbers the fragments read for group mode.
const firstGroupKey = 100000

// Context holds the state shared across batches: the configuration and the
// identifier map, which is loaded before and saved after a run.
type Context struct {
	Config *config.Config
	Store  bag.Store
	// Prior is the identifier map fed to the next batch. Each run replaces
	// it with the map the run produced.
	Prior  map[string]string
	Silent bool // Inherited from config for convenience
}

// NewContext creates a context whose identifier map lives where the
// configuration says.
func NewContext(cfg *config.Config) (*Context, error) {
	store, err := bag.NewStore(cfg.Bags.Backend, cfg.BagPath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identifier map store: %w", err)
	}
	return &Context{
		Config: cfg,
		Store:  store,
		Prior:  map[string]string{},
		Silent: cfg.Silent,
	}, nil
}

// Load reads the identifier map. A missing map is not an error.
func (c *Context) Load() error {
	m, err := c.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load identifier map: %w", err)
	}
	c.Prior = m
	if !c.Silent {
		config.PrintInfo("Info: Loaded %d identifiers from %s\n", len(m), c.Store.Path())
	}
	return nil
}

// Save writes the identifier map.
func (c *Context) Save() error {
	if err := c.Store.Save(c.Prior); err != nil {
		return fmt.Errorf("failed to save identifier map: %w", err)
	}
	if !c.Silent {
		config.PrintInfo("Info: Saved %d identifiers to %s\n", len(c.Prior), c.Store.Path())
	}
	return nil
}

// Options derives batch options from the configuration and the current
// identifier map.
func (c *Context) Options() Options {
	cfg := c.Config
	return Options{
		Level:            analyzer.Level(cfg.Obfuscation.Level),
		Prior:            c.Prior,
		JoinSeparator:    JoinSeparator(cfg.Obfuscation.LineMode),
		StrictSemicolons: cfg.Obfuscation.StrictSemicolons,
		Output: printer.Options{
			Beautify:     cfg.Output.Beautify,
			IndentStart:  cfg.Output.IndentStart,
			IndentLevel:  cfg.Output.IndentLevel,
			QuoteKeys:    cfg.Output.QuoteKeys,
			SpaceColon:   cfg.Output.SpaceColon,
			ASCIIOnly:    cfg.Output.ASCIIOnly,
			InlineScript: cfg.Output.InlineScript,
			MaxLineLen:   cfg.Output.MaxLineLen,
		},
	}
}

// Run executes one batch, reports its failures and warnings, and keeps
// the resulting identifier map for the next batch. With AbortOnError set,
// any fragment failure is returned as an error.
func (c *Context) Run(fragments map[string]string, groups []Group) (*Result, error) {
	res, err := RunBatch(fragments, groups, c.Options())
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		config.PrintWarn("%s\n", w)
	}
	for _, f := range res.Failures {
		if f.Context != "" {
			config.PrintWarn("source code at:\n%s\n", f.Context)
		}
		config.PrintWarn("%v\n", f)
	}
	if c.Config.AbortOnError && len(res.Failures) > 0 {
		return res, res.Err()
	}
	c.Prior = res.IdentifierMap
	return res, nil
}

// ProcessCode compresses a single piece of code as its own batch.
func (c *Context) ProcessCode(code string) (string, error) {
	const key = "input"
	res, err := c.Run(map[string]string{key: code}, []Group{{Name: key, Keys: []string{key}}})
	if err != nil {
		return "", err
	}
	if len(res.Failures) > 0 {
		return "", res.Err()
	}
	return res.Outputs[key], nil
}

// ProcessFile reads and compresses a single file.
func (c *Context) ProcessFile(filePath string) (string, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return c.ProcessCode(string(src))
}

// ProcessGroups builds every configured group from its files, resolved
// against the configuration directory. A file used by several groups is
// read and parsed once. It returns the generated code per group.
func (c *Context) ProcessGroups() (map[string]string, error) {
	fragments := make(map[string]string)
	keyOf := make(map[string]string)
	next := firstGroupKey

	var groups []Group
	for _, name := range c.Config.GroupList() {
		g := Group{Name: name}
		for _, file := range c.Config.Groups[name] {
			path := file
			if !filepath.IsAbs(path) {
				path = filepath.Join(c.Config.Dir, path)
			}
			key, seen := keyOf[path]
			if !seen {
				src, err := os.ReadFile(path)
				if err != nil {
					return nil, fmt.Errorf("error reading file %s of group %s: %w", path, name, err)
				}
				key = strconv.Itoa(next)
				next++
				keyOf[path] = key
				fragments[key] = string(src)
			}
			g.Keys = append(g.Keys, key)
		}
		groups = append(groups, g)
	}

	res, err := c.Run(fragments, groups)
	if err != nil {
		return nil, err
	}
	return res.Outputs, nil
}

// WriteGroups runs ProcessGroups and writes each group to outDir as
// <group>.js. A group name that already ends in ".js" is used as is. It
// returns the written paths, sorted.
func (c *Context) WriteGroups(outDir string) ([]string, error) {
	outputs, err := c.ProcessGroups()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		file := name
		if !strings.HasSuffix(file, ".js") {
			file += ".js"
		}
		path := filepath.Join(outDir, file)
		if err := writeOutput(path, outputs[name]); err != nil {
			return written, err
		}
		if !c.Silent {
			config.PrintInfo("Info: Wrote %s\n", path)
		}
		written = append(written, path)
	}
	return written, nil
}

// ProcessDirectory compresses every script under srcDir as one batch, so
// names are shared across files, and writes each file to dstDir as a flat
// name: its path below the parent of srcDir with separators replaced by
// underscores. Files with no output are not written. It returns the
// written paths, sorted.
func (c *Context) ProcessDirectory(srcDir, dstDir string) ([]string, error) {
	srcDir = filepath.Clean(srcDir)
	base := filepath.Dir(srcDir)
	fragments := make(map[string]string)
	var groups []Group
	var collectedErrors []error

	walkErr := filepath.WalkDir(srcDir, func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			walkErr := fmt.Errorf("error accessing path %q: %w", entryPath, err)
			collectedErrors = append(collectedErrors, walkErr)
			if c.Config.AbortOnError {
				return walkErr
			}
			return nil
		}
		relPath, err := filepath.Rel(srcDir, entryPath)
		if err != nil {
			return fmt.Errorf("error calculating relative path for %q: %w", entryPath, err)
		}
		if relPath == "." {
			return nil
		}
		skipped, err := checkPathAgainstPatterns(relPath, c.Config.SkipPaths)
		if err != nil {
			return err
		}
		if skipped {
			config.PrintDebug("skipping %s\n", entryPath)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(entryPath, c.Config.Output.Extensions) {
			return nil
		}

		src, err := os.ReadFile(entryPath)
		if err != nil {
			readErr := fmt.Errorf("error reading file %s: %w", entryPath, err)
			collectedErrors = append(collectedErrors, readErr)
			if c.Config.AbortOnError {
				return readErr
			}
			return nil
		}
		outRel, _ := filepath.Rel(base, entryPath)
		name := strings.ReplaceAll(filepath.ToSlash(outRel), "/", "_")
		fragments[name] = string(src)
		groups = append(groups, Group{Name: name, Keys: []string{name}})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	res, err := c.Run(fragments, groups)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, g := range groups {
		code := res.Outputs[g.Name]
		if code == "" {
			continue
		}
		path := filepath.Join(dstDir, g.Name)
		if err := writeOutput(path, code); err != nil {
			return written, err
		}
		if !c.Silent {
			config.PrintInfo("Info: Wrote %s\n", path)
		}
		written = append(written, path)
	}
	sort.Strings(written)
	return written, errors.Join(collectedErrors...)
}

func writeOutput(path, code string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(Terminate(code)), 0644); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == "."+strings.ToLower(strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// checkPathAgainstPatterns checks if the relative path matches any of the
// glob patterns. A pattern also matches by base name, and "dir/*" matches
// everything below dir.
func checkPathAgainstPatterns(relPath string, patterns []string) (bool, error) {
	pathNormalized := filepath.ToSlash(relPath)
	baseName := filepath.Base(relPath)
	for _, pattern := range patterns {
		for _, candidate := range []string{pathNormalized, baseName} {
			matched, err := filepath.Match(pattern, candidate)
			if err != nil {
				return false, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
			}
			if matched {
				return true, nil
			}
		}
		if dir, ok := strings.CutSuffix(pattern, "/*"); ok {
			if pathNormalized == dir || strings.HasPrefix(pathNormalized, dir+"/") {
				return true, nil
			}
		}
	}
	return false, nil
}

package obfuscator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/whit3rabbit/jsmixer/internal/analyzer"
	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/internal/mangler"
	"github.com/whit3rabbit/jsmixer/internal/parser"
	"github.com/whit3rabbit/jsmixer/internal/printer"
	"github.com/whit3rabbit/jsmixer/internal/scrambler"
)

// emptyIIFE matches a fragment consisting of a single no-op
// immediately invoked function.
var emptyIIFE = regexp.MustCompile(`^\(\s*function\s*\(\s*\)\s*\{\s*\}\s*\)\s*\(\s*\)\s*;?$`)

// Group is a named output bundle made of fragments, in order.
type Group struct {
	Name string
	Keys []string
}

// Options configure RunBatch.
type Options struct {
	Level analyzer.Level
	// Prior is the identifier map of earlier runs.
	Prior map[string]string
	// JoinSeparator is put between the fragments of a group.
	JoinSeparator    string
	StrictSemicolons bool
	Output           printer.Options
}

// JoinSeparator returns the fragment separator for a line mode.
func JoinSeparator(lineMode int) string {
	if lineMode == config.LineModeNewlines {
		return ";\n"
	}
	return ""
}

// FailureKind classifies a fragment failure.
type FailureKind int

const (
	ParseFailure FailureKind = iota
	MangleFailure
	GenerateFailure
)

func (k FailureKind) String() string {
	switch k {
	case ParseFailure:
		return "parse"
	case MangleFailure:
		return "mangle"
	case GenerateFailure:
		return "generate"
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// FragmentError is a failure confined to one fragment. The fragment is
// left out of the batch; the other fragments are processed normally.
type FragmentError struct {
	Key  string
	Kind FailureKind
	Err  error
	// Context holds the source lines around a parse error.
	Context string
}

func (e *FragmentError) Error() string {
	var perr *parser.Error
	if e.Kind == ParseFailure && errors.As(e.Err, &perr) {
		return fmt.Sprintf("fragment %s: PARSE ERROR: %s AT LINE:%d COL:%d", e.Key, perr.Message, perr.Line, perr.Col)
	}
	return fmt.Sprintf("fragment %s: %s error: %v", e.Key, e.Kind, e.Err)
}

func (e *FragmentError) Unwrap() error { return e.Err }

// Result is the outcome of RunBatch.
type Result struct {
	// Outputs maps group names to generated code.
	Outputs map[string]string
	// IdentifierMap is the map to persist for the next run.
	IdentifierMap map[string]string
	Failures      []*FragmentError
	// Pruned lists fragments dropped as empty, sorted.
	Pruned []string
	// Warnings are non-fatal findings, such as scopes using with or eval.
	Warnings []string
	// Analysis is nil when renaming is disabled.
	Analysis *analyzer.Result
}

// Err joins the fragment failures, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// IsEmptyFragment reports whether src has nothing to generate: blank, a
// lone semicolon, or an empty self-invoking function.
func IsEmptyFragment(src string) bool {
	t := strings.TrimSpace(src)
	return t == "" || t == ";" || emptyIIFE.MatchString(t)
}

type fragment struct {
	key  string
	src  string
	tree *ast.Toplevel
	text string
	ok   bool
}

// RunBatch compresses a set of fragments and assembles them into groups.
// All parsed fragments are analyzed together, so an identifier gets the
// same short name everywhere in the batch. Fragments that fail are
// recorded in Result.Failures and left out; exhaustion of the name
// generator aborts the whole batch.
func RunBatch(fragments map[string]string, groups []Group, opts Options) (*Result, error) {
	res := &Result{Outputs: make(map[string]string, len(groups))}

	// Prune empty fragments.
	live := make(map[string]string, len(fragments))
	for key, src := range fragments {
		if IsEmptyFragment(src) {
			res.Pruned = append(res.Pruned, key)
			continue
		}
		live[key] = src
	}
	sort.Strings(res.Pruned)

	// Parse, in group order first so failures are reported predictably.
	started := time.Now()
	frags := make(map[string]*fragment, len(live))
	var order []*fragment
	parse := func(key string) {
		if _, done := frags[key]; done {
			return
		}
		src, ok := live[key]
		if !ok {
			return
		}
		f := &fragment{key: key, src: src}
		frags[key] = f
		tree, err := parser.Parse(src, parser.Options{StrictSemicolons: opts.StrictSemicolons})
		if err != nil {
			fe := &FragmentError{Key: key, Kind: ParseFailure, Err: err}
			var perr *parser.Error
			if errors.As(err, &perr) {
				fe.Context = parser.ContextWindow(src, perr.Line, parser.DefaultContextRadius)
			}
			res.Failures = append(res.Failures, fe)
			return
		}
		f.tree = tree
		order = append(order, f)
	}
	for _, g := range groups {
		for _, key := range g.Keys {
			parse(key)
		}
	}
	rest := make([]string, 0, len(live))
	for key := range live {
		if _, done := frags[key]; !done {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		parse(key)
	}
	config.PrintDebug("parsing %d fragments done in: %.3f sec.\n", len(order), time.Since(started).Seconds())

	if opts.Level <= analyzer.LevelNone {
		for _, f := range order {
			res.generate(f, f.tree, opts.Output)
		}
		res.IdentifierMap = copyMap(opts.Prior)
	} else {
		started = time.Now()
		combined := &ast.Toplevel{}
		for _, f := range order {
			combined.Body = append(combined.Body, f.tree.Body...)
		}
		analysis, err := analyzer.Analyze(combined, analyzer.Options{Level: opts.Level, Prior: opts.Prior})
		if err != nil {
			return nil, fmt.Errorf("analyzing identifiers: %w", err)
		}
		res.Analysis = analysis
		res.IdentifierMap = analysis.IdentifierMap()
		res.Warnings = append(res.Warnings, dynamicScopeWarnings(analysis)...)
		config.PrintDebug("counting identifiers done in: %.3f sec.\n", time.Since(started).Seconds())

		started = time.Now()
		for _, f := range order {
			mangled, err := mangler.Mangle(f.tree, analysis, opts.Level)
			if err != nil {
				res.Failures = append(res.Failures, &FragmentError{Key: f.key, Kind: MangleFailure, Err: err})
				continue
			}
			res.generate(f, mangled, opts.Output)
		}
		config.PrintDebug("renaming and generating code done in: %.3f sec.\n", time.Since(started).Seconds())
	}

	for _, g := range groups {
		var parts []string
		for _, key := range g.Keys {
			if f, ok := frags[key]; ok && f.ok && f.text != "" {
				parts = append(parts, f.text)
			}
		}
		res.Outputs[g.Name] = join(parts, opts.JoinSeparator)
	}
	return res, nil
}

// dynamicScopeWarnings lists, per scope using with or eval, the renamed
// names that code in that scope can reach.
func dynamicScopeWarnings(analysis *analyzer.Result) []string {
	var warnings []string
	analysis.Scope.Walk(func(s *scrambler.Scope) {
		if !s.Dynamic() {
			return
		}
		seen := make(map[string]bool)
		var names []string
		note := func(name string) {
			if _, renamed := analysis.Lookup(name); renamed && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for name := range s.Names {
			note(name)
		}
		for name := range s.Refs {
			note(name)
		}
		if len(names) == 0 {
			return
		}
		sort.Strings(names)

		var uses []string
		if s.UsesWith {
			uses = append(uses, "with")
		}
		if s.UsesEval {
			uses = append(uses, "eval")
		}
		warnings = append(warnings, fmt.Sprintf("scope at level %d uses %s; renamed names may not resolve there: %s",
			s.Level, strings.Join(uses, " and "), strings.Join(names, ", ")))
	})
	return warnings
}

func (r *Result) generate(f *fragment, tree ast.Node, opts printer.Options) {
	text, err := printer.Generate(tree, opts)
	if err != nil {
		r.Failures = append(r.Failures, &FragmentError{Key: f.key, Kind: GenerateFailure, Err: err})
		return
	}
	f.text, f.ok = text, true
}

// join concatenates fragment texts. A separator without a semicolon
// would let adjacent fragments run into each other, so each fragment is
// terminated first.
func join(parts []string, sep string) string {
	if !strings.Contains(sep, ";") && len(parts) > 1 {
		for i := range parts[:len(parts)-1] {
			parts[i] = Terminate(parts[i])
		}
	}
	return strings.Join(parts, sep)
}

// Terminate replaces the trailing semicolons of generated code with
// exactly one. Empty code stays empty.
func Terminate(code string) string {
	if code == "" {
		return ""
	}
	return strings.TrimRight(code, ";") + ";"
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

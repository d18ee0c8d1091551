// Package analyzer decides which identifiers of a batch are renamed and
// which short names they get.
//
// Renaming is by name, not by binding: every eligible occurrence of an
// identifier, whether a variable, a parameter, a property or an object key,
// receives the same short name across the whole batch. Eligibility is
// decided by naming convention (a leading underscore) at one of three
// levels.
package analyzer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/scrambler"
	"github.com/whit3rabbit/jsmixer/internal/walker"
)

// Level selects which identifiers are eligible for renaming.
type Level int

const (
	// LevelNone disables renaming.
	LevelNone Level = 0
	// LevelPrivate renames "_x" but neither "__x" nor "_$x".
	LevelPrivate Level = 1
	// LevelProtected renames "_x" and "__x" but not "_$x".
	LevelProtected Level = 2
	// LevelAll renames every name starting with an underscore.
	LevelAll Level = 3

	DefaultLevel = LevelAll
)

// Reflective property names that must keep their spelling.
var denylist = regexp.MustCompile(`^__(proto|defineGetter|defineSetter|lookupGetter|lookupSetter)__$`)

// Eligible reports whether name may be renamed at the given level.
func Eligible(level Level, name string) bool {
	if len(name) == 0 || name[0] != '_' || denylist.MatchString(name) {
		return false
	}
	var second byte
	if len(name) > 1 {
		second = name[1]
	}
	switch level {
	case LevelNone:
		return false
	case LevelPrivate:
		return second != '_' && second != '$'
	case LevelProtected:
		return second != '$'
	default:
		return true
	}
}

// Record is one eligible identifier.
type Record struct {
	ID       string
	Count    int
	Assigned string
}

// Options configure Analyze.
type Options struct {
	Level Level
	// Prior is the identifier map of earlier batches, original to short.
	Prior map[string]string
}

// Result is the outcome of an analysis.
type Result struct {
	Level Level
	// Eligible records, most frequent first.
	Eligible []*Record
	// Ineligible maps names that keep their spelling to their occurrence
	// count. None of them is ever used as a short name.
	Ineligible map[string]int
	// Carried holds prior map entries for identifiers absent from this
	// batch.
	Carried map[string]string
	// Scope is the root of the batch's scope tree.
	Scope *scrambler.Scope

	byID map[string]*Record
}

// Lookup returns the short name assigned to an eligible identifier.
func (r *Result) Lookup(id string) (string, bool) {
	rec, ok := r.byID[id]
	if !ok || rec.Assigned == "" {
		return "", false
	}
	return rec.Assigned, true
}

// IdentifierMap returns the original to short map to persist: the
// assignments of this batch plus the carried prior entries.
func (r *Result) IdentifierMap() map[string]string {
	out := make(map[string]string, len(r.Eligible)+len(r.Carried))
	for id, short := range r.Carried {
		out[id] = short
	}
	for _, rec := range r.Eligible {
		out[rec.ID] = rec.Assigned
	}
	return out
}

// Analyze counts the identifiers of tree and assigns short names to the
// eligible ones.
func Analyze(tree ast.Node, opts Options) (*Result, error) {
	res := &Result{
		Level:      opts.Level,
		Ineligible: make(map[string]int),
		Carried:    make(map[string]string),
		byID:       make(map[string]*Record),
	}
	if opts.Level <= LevelNone {
		return res, nil
	}

	Occurrences(tree, func(name string) {
		if !Eligible(opts.Level, name) {
			res.Ineligible[name]++
			return
		}
		rec, ok := res.byID[name]
		if !ok {
			rec = &Record{ID: name}
			res.byID[name] = rec
			res.Eligible = append(res.Eligible, rec)
		}
		rec.Count++
	})

	// Stable, so ties keep first-seen order.
	sort.SliceStable(res.Eligible, func(i, j int) bool {
		return res.Eligible[i].Count > res.Eligible[j].Count
	})

	res.Scope = scrambler.Build(tree)
	if err := res.assign(opts.Prior); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) assign(prior map[string]string) error {
	// Short names held by prior entries stay reserved for their owners.
	reserved := make(map[string]bool, len(prior))
	for _, short := range prior {
		reserved[short] = true
	}
	issued := make(map[string]string)

	usable := func(short string) bool {
		_, protected := r.Ineligible[short]
		return !protected && scrambler.IsIdentifier(short)
	}
	fresh := func(id string) (string, error) {
		m, err := r.Scope.NextMangledExcept(func(m string) bool {
			_, protected := r.Ineligible[m]
			_, taken := issued[m]
			return protected || taken || reserved[m]
		})
		if err != nil {
			return "", fmt.Errorf("assigning a name to %s: %w", id, err)
		}
		return m, nil
	}

	for _, rec := range r.Eligible {
		if short, ok := prior[rec.ID]; ok && usable(short) {
			if owner, taken := issued[short]; !taken || owner == rec.ID {
				rec.Assigned = r.Scope.SetMangle(rec.ID, short)
				issued[short] = rec.ID
				continue
			}
		}
		m, err := fresh(rec.ID)
		if err != nil {
			return err
		}
		rec.Assigned = r.Scope.SetMangle(rec.ID, m)
		issued[m] = rec.ID
	}

	// Prior entries for identifiers this batch does not mention; sorted so
	// replacement names are deterministic.
	ids := make([]string, 0, len(prior))
	for id := range prior {
		if _, seen := r.byID[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		short := prior[id]
		if owner, taken := issued[short]; usable(short) && (!taken || owner == id) {
			r.Carried[id] = short
			issued[short] = id
			continue
		}
		m, err := fresh(id)
		if err != nil {
			return err
		}
		r.Carried[id] = m
		issued[m] = id
	}
	return nil
}

// Occurrences calls fn for every identifier occurrence of tree that is
// subject to renaming: var and const names, name references, dot
// properties, function names and parameters, catch parameters and object
// keys.
func Occurrences(tree ast.Node, fn func(name string)) {
	v := walker.NewVisitor()
	lambda := func(name string, params []string) {
		if name != "" {
			fn(name)
		}
		for _, p := range params {
			fn(p)
		}
	}
	defs := func(w *walker.Walker[struct{}], list []ast.VarDef) {
		for _, d := range list {
			fn(d.Name)
			w.Walk(d.Value)
		}
	}
	v.WithOverrides(walker.Overrides[struct{}]{
		ast.KindName: func(_ *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			fn(n.(*ast.Name).Name)
			return struct{}{}, true
		},
		ast.KindVar: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			defs(w, n.(*ast.Var).Defs)
			return struct{}{}, true
		},
		ast.KindConst: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			defs(w, n.(*ast.Const).Defs)
			return struct{}{}, true
		},
		ast.KindDot: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			d := n.(*ast.Dot)
			w.Walk(d.Expr)
			fn(d.Prop)
			return struct{}{}, true
		},
		ast.KindDefun: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			f := n.(*ast.Defun)
			lambda(f.Name, f.Params)
			return w.Dive(n), true
		},
		ast.KindFunction: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			f := n.(*ast.Function)
			lambda(f.Name, f.Params)
			return w.Dive(n), true
		},
		ast.KindTry: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			t := n.(*ast.Try)
			w.WalkList(t.Body)
			if t.Catch != nil {
				fn(t.Catch.Param)
				w.WalkList(t.Catch.Body)
			}
			if t.Finally != nil {
				w.WalkList(t.Finally.Body)
			}
			return struct{}{}, true
		},
		ast.KindObject: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			for _, p := range n.(*ast.Object).Props {
				fn(p.Key)
				w.Walk(p.Value)
			}
			return struct{}{}, true
		},
	}, func(w *walker.Walker[struct{}]) struct{} {
		return w.Walk(tree)
	})
}

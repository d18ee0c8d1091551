// Package mangler rewrites eligible identifiers to their assigned short
// names.
package mangler

import (
	"fmt"

	"github.com/whit3rabbit/jsmixer/internal/analyzer"
	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/walker"
)

// UnassignedError reports an eligible identifier the analysis did not
// assign a name to. It means the tree was not part of the analyzed batch.
type UnassignedError struct {
	Name string
}

func (e *UnassignedError) Error() string {
	return fmt.Sprintf("identifier %q is eligible but has no assigned name", e.Name)
}

// Mangle returns a copy of tree in which every eligible identifier
// occurrence is replaced by its assigned name. Eligibility is checked at
// each site with the given level.
func Mangle(tree ast.Node, res *analyzer.Result, level analyzer.Level) (out ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *UnassignedError:
				out, err = nil, e
			case *walker.UnknownKindError:
				out, err = nil, e
			default:
				panic(r)
			}
		}
	}()

	rename := func(name string) string {
		if !analyzer.Eligible(level, name) {
			return name
		}
		short, ok := res.Lookup(name)
		if !ok {
			panic(&UnassignedError{Name: name})
		}
		return short
	}
	renameAll := func(names []string) []string {
		if names == nil {
			return nil
		}
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = rename(n)
		}
		return out
	}
	defs := func(w *walker.Walker[ast.Node], list []ast.VarDef) []ast.VarDef {
		out := make([]ast.VarDef, len(list))
		for i, d := range list {
			out[i] = ast.VarDef{Name: rename(d.Name), Value: w.Walk(d.Value)}
		}
		return out
	}

	t := walker.NewTransformer()
	out = t.WithOverrides(walker.Overrides[ast.Node]{
		ast.KindName: func(_ *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			return &ast.Name{Name: rename(n.(*ast.Name).Name)}, true
		},
		ast.KindVar: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			return &ast.Var{Defs: defs(w, n.(*ast.Var).Defs)}, true
		},
		ast.KindConst: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			return &ast.Const{Defs: defs(w, n.(*ast.Const).Defs)}, true
		},
		ast.KindDot: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			d := n.(*ast.Dot)
			return &ast.Dot{Expr: w.Walk(d.Expr), Prop: rename(d.Prop)}, true
		},
		ast.KindDefun: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			f := w.Dive(n).(*ast.Defun)
			f.Name = rename(f.Name)
			f.Params = renameAll(f.Params)
			return f, true
		},
		ast.KindFunction: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			f := w.Dive(n).(*ast.Function)
			if f.Name != "" {
				f.Name = rename(f.Name)
			}
			f.Params = renameAll(f.Params)
			return f, true
		},
		ast.KindTry: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			t := w.Dive(n).(*ast.Try)
			if t.Catch != nil {
				t.Catch.Param = rename(t.Catch.Param)
			}
			return t, true
		},
		ast.KindObject: func(w *walker.Walker[ast.Node], n ast.Node) (ast.Node, bool) {
			o := w.Dive(n).(*ast.Object)
			for i := range o.Props {
				o.Props[i].Key = rename(o.Props[i].Key)
			}
			return o, true
		},
	}, func(w *walker.Walker[ast.Node]) ast.Node {
		return w.Walk(tree)
	})
	return out, nil
}

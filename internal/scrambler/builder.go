package scrambler

import (
	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/walker"
)

type reference struct {
	scope *Scope
	name  string
}

// Build constructs the scope tree of tree and returns its root.
//
// Function bodies open scopes. Defun names are declared in the enclosing
// scope; function expression names, parameters, var/const and catch names
// where they appear. with statements and references to eval flag the
// current scope and all of its ancestors. References are resolved once the
// whole tree has been seen, so hoisted declarations are found.
func Build(tree ast.Node) *Scope {
	root := NewScope(nil)
	cur := root
	var refs []reference

	ref := func(name string) {
		if name == "eval" {
			for s := cur; s != nil; s = s.Parent {
				s.UsesEval = true
			}
		}
		refs = append(refs, reference{scope: cur, name: name})
	}

	enter := func(w *walker.Walker[struct{}], lambda string, params []string, body []ast.Node) {
		saved := cur
		cur = NewScope(cur)
		cur.Define(lambda, DeclLambda)
		for _, p := range params {
			cur.Define(p, DeclArgument)
		}
		w.WalkList(body)
		cur = saved
	}

	defs := func(w *walker.Walker[struct{}], list []ast.VarDef, typ DeclType) {
		for _, d := range list {
			cur.Define(d.Name, typ)
			ref(d.Name)
			w.Walk(d.Value)
		}
	}

	v := walker.NewVisitor()
	v.WithOverrides(walker.Overrides[struct{}]{
		ast.KindName: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			ref(n.(*ast.Name).Name)
			return struct{}{}, true
		},
		ast.KindVar: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			defs(w, n.(*ast.Var).Defs, DeclVar)
			return struct{}{}, true
		},
		ast.KindConst: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			defs(w, n.(*ast.Const).Defs, DeclConst)
			return struct{}{}, true
		},
		ast.KindDefun: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			f := n.(*ast.Defun)
			cur.Define(f.Name, DeclDefun)
			enter(w, "", f.Params, f.Body)
			return struct{}{}, true
		},
		ast.KindFunction: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			f := n.(*ast.Function)
			enter(w, f.Name, f.Params, f.Body)
			return struct{}{}, true
		},
		ast.KindTry: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			if c := n.(*ast.Try).Catch; c != nil {
				cur.Define(c.Param, DeclCatch)
			}
			return struct{}{}, false
		},
		ast.KindWith: func(w *walker.Walker[struct{}], n ast.Node) (struct{}, bool) {
			for s := cur; s != nil; s = s.Parent {
				s.UsesWith = true
			}
			return struct{}{}, false
		},
	}, func(w *walker.Walker[struct{}]) struct{} {
		return w.Walk(tree)
	})

	for _, r := range refs {
		def := r.scope.Has(r.name)
		for s := r.scope; s != nil; s = s.Parent {
			s.Refs[r.name] = def
			if s == def {
				break
			}
		}
	}
	return root
}

// Walk calls fn for s and all of its descendants, parents first.
func (s *Scope) Walk(fn func(*Scope)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

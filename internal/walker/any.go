package walker

import "github.com/whit3rabbit/jsmixer/internal/ast"

// Any reports whether visit matches a node of the subtree rooted at n.
// visit returns whether the node matches and whether its children should
// be searched; the walk stops at the first match.
func Any(n ast.Node, visit func(ast.Node) (match, descend bool)) bool {
	if n == nil {
		return false
	}
	match, descend := visit(n)
	if match {
		return true
	}
	if !descend {
		return false
	}
	for _, c := range Children(n) {
		if Any(c, visit) {
			return true
		}
	}
	return false
}

// Children lists the direct child nodes of n in source order. Nil
// children are omitted.
func Children(n ast.Node) []ast.Node {
	var out []ast.Node
	add := func(nodes ...ast.Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch v := n.(type) {
	case *ast.Toplevel:
		add(v.Body...)
	case *ast.Block:
		add(v.Body...)
	case *ast.Stat:
		add(v.Expr)
	case *ast.Var:
		for _, d := range v.Defs {
			add(d.Value)
		}
	case *ast.Const:
		for _, d := range v.Defs {
			add(d.Value)
		}
	case *ast.If:
		add(v.Cond, v.Then, v.Else)
	case *ast.For:
		add(v.Init, v.Cond, v.Step, v.Body)
	case *ast.ForIn:
		add(v.Init, v.Key, v.Object, v.Body)
	case *ast.While:
		add(v.Cond, v.Body)
	case *ast.Do:
		add(v.Cond, v.Body)
	case *ast.Switch:
		add(v.Expr)
		for _, c := range v.Cases {
			add(c.Expr)
			add(c.Body...)
		}
	case *ast.Try:
		add(v.Body...)
		if v.Catch != nil {
			add(v.Catch.Body...)
		}
		if v.Finally != nil {
			add(v.Finally.Body...)
		}
	case *ast.Throw:
		add(v.Expr)
	case *ast.Return:
		add(v.Expr)
	case *ast.Label:
		add(v.Body)
	case *ast.With:
		add(v.Expr, v.Body)
	case *ast.Assign:
		add(v.Target, v.Value)
	case *ast.Binary:
		add(v.Left, v.Right)
	case *ast.UnaryPrefix:
		add(v.Expr)
	case *ast.UnaryPostfix:
		add(v.Expr)
	case *ast.Conditional:
		add(v.Cond, v.Then, v.Else)
	case *ast.Dot:
		add(v.Expr)
	case *ast.Sub:
		add(v.Expr, v.Index)
	case *ast.Call:
		add(v.Callee)
		add(v.Args...)
	case *ast.New:
		add(v.Ctor)
		add(v.Args...)
	case *ast.Function:
		add(v.Body...)
	case *ast.Defun:
		add(v.Body...)
	case *ast.Object:
		for _, p := range v.Props {
			add(p.Value)
		}
	case *ast.Array:
		add(v.Elements...)
	case *ast.Seq:
		add(v.Exprs...)
	}
	return out
}

// NewVisitor returns a walker whose defaults only walk children, in the
// order given by Children. It is the base for analyses that inspect a
// tree without rebuilding it.
func NewVisitor() *Walker[struct{}] {
	return New(&visit)
}

var visit = func() (t Table[struct{}]) {
	for k := ast.Kind(0); k < ast.KindCount; k++ {
		t[k] = visitChildren
	}
	return t
}()

func visitChildren(w *Walker[struct{}], n ast.Node) struct{} {
	for _, c := range Children(n) {
		w.Walk(c)
	}
	return struct{}{}
}

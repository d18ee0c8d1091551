package walker

import "github.com/whit3rabbit/jsmixer/internal/ast"

// NewTransformer returns a walker whose defaults rebuild every node with
// walked children. Overrides on it implement AST rewrites; the input tree
// is never modified.
func NewTransformer() *Walker[ast.Node] {
	return New(&rebuild)
}

func walkDefs(w *Walker[ast.Node], defs []ast.VarDef) []ast.VarDef {
	if defs == nil {
		return nil
	}
	out := make([]ast.VarDef, len(defs))
	for i, d := range defs {
		out[i] = ast.VarDef{Name: d.Name, Value: w.Walk(d.Value)}
	}
	return out
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func leaf(_ *Walker[ast.Node], n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Name:
		c := *v
		return &c
	case *ast.Num:
		c := *v
		return &c
	case *ast.String:
		c := *v
		return &c
	case *ast.RegExp:
		c := *v
		return &c
	case *ast.Atom:
		c := *v
		return &c
	case *ast.Break:
		c := *v
		return &c
	case *ast.Continue:
		c := *v
		return &c
	case *ast.Debugger:
		return &ast.Debugger{}
	}
	panic(&UnknownKindError{Kind: n.Kind()})
}

var rebuild = Table[ast.Node]{
	ast.KindName:     leaf,
	ast.KindNum:      leaf,
	ast.KindString:   leaf,
	ast.KindRegExp:   leaf,
	ast.KindAtom:     leaf,
	ast.KindBreak:    leaf,
	ast.KindContinue: leaf,
	ast.KindDebugger: leaf,
	ast.KindToplevel: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Toplevel{Body: w.WalkList(n.(*ast.Toplevel).Body)}
	},
	ast.KindBlock: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Block{Body: w.WalkList(n.(*ast.Block).Body)}
	},
	ast.KindStat: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Stat{Expr: w.Walk(n.(*ast.Stat).Expr)}
	},
	ast.KindVar: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Var{Defs: walkDefs(w, n.(*ast.Var).Defs)}
	},
	ast.KindConst: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Const{Defs: walkDefs(w, n.(*ast.Const).Defs)}
	},
	ast.KindIf: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.If)
		return &ast.If{Cond: w.Walk(v.Cond), Then: w.Walk(v.Then), Else: w.Walk(v.Else)}
	},
	ast.KindFor: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.For)
		return &ast.For{Init: w.Walk(v.Init), Cond: w.Walk(v.Cond), Step: w.Walk(v.Step), Body: w.Walk(v.Body)}
	},
	ast.KindForIn: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.ForIn)
		return &ast.ForIn{Init: w.Walk(v.Init), Key: w.Walk(v.Key), Object: w.Walk(v.Object), Body: w.Walk(v.Body)}
	},
	ast.KindWhile: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.While)
		return &ast.While{Cond: w.Walk(v.Cond), Body: w.Walk(v.Body)}
	},
	ast.KindDo: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Do)
		return &ast.Do{Cond: w.Walk(v.Cond), Body: w.Walk(v.Body)}
	},
	ast.KindSwitch: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Switch)
		cases := make([]ast.Case, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = ast.Case{Expr: w.Walk(c.Expr), Body: w.WalkList(c.Body)}
		}
		return &ast.Switch{Expr: w.Walk(v.Expr), Cases: cases}
	},
	ast.KindTry: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Try)
		out := &ast.Try{Body: w.WalkList(v.Body)}
		if v.Catch != nil {
			out.Catch = &ast.Catch{Param: v.Catch.Param, Body: w.WalkList(v.Catch.Body)}
		}
		if v.Finally != nil {
			out.Finally = &ast.Block{Body: w.WalkList(v.Finally.Body)}
		}
		return out
	},
	ast.KindThrow: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Throw{Expr: w.Walk(n.(*ast.Throw).Expr)}
	},
	ast.KindReturn: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Return{Expr: w.Walk(n.(*ast.Return).Expr)}
	},
	ast.KindLabel: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Label)
		return &ast.Label{Name: v.Name, Body: w.Walk(v.Body)}
	},
	ast.KindWith: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.With)
		return &ast.With{Expr: w.Walk(v.Expr), Body: w.Walk(v.Body)}
	},
	ast.KindAssign: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Assign)
		return &ast.Assign{Op: v.Op, Target: w.Walk(v.Target), Value: w.Walk(v.Value)}
	},
	ast.KindBinary: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Binary)
		return &ast.Binary{Op: v.Op, Left: w.Walk(v.Left), Right: w.Walk(v.Right)}
	},
	ast.KindUnaryPrefix: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.UnaryPrefix)
		return &ast.UnaryPrefix{Op: v.Op, Expr: w.Walk(v.Expr)}
	},
	ast.KindUnaryPostfix: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.UnaryPostfix)
		return &ast.UnaryPostfix{Op: v.Op, Expr: w.Walk(v.Expr)}
	},
	ast.KindConditional: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Conditional)
		return &ast.Conditional{Cond: w.Walk(v.Cond), Then: w.Walk(v.Then), Else: w.Walk(v.Else)}
	},
	ast.KindDot: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Dot)
		return &ast.Dot{Expr: w.Walk(v.Expr), Prop: v.Prop}
	},
	ast.KindSub: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Sub)
		return &ast.Sub{Expr: w.Walk(v.Expr), Index: w.Walk(v.Index)}
	},
	ast.KindCall: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Call)
		return &ast.Call{Callee: w.Walk(v.Callee), Args: w.WalkList(v.Args)}
	},
	ast.KindNew: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.New)
		return &ast.New{Ctor: w.Walk(v.Ctor), Args: w.WalkList(v.Args)}
	},
	ast.KindFunction: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Function)
		return &ast.Function{Name: v.Name, Params: copyStrings(v.Params), Body: w.WalkList(v.Body)}
	},
	ast.KindDefun: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Defun)
		return &ast.Defun{Name: v.Name, Params: copyStrings(v.Params), Body: w.WalkList(v.Body)}
	},
	ast.KindObject: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		v := n.(*ast.Object)
		props := make([]ast.Property, len(v.Props))
		for i, p := range v.Props {
			props[i] = ast.Property{Key: p.Key, Value: w.Walk(p.Value), Accessor: p.Accessor, NumericKey: p.NumericKey}
		}
		return &ast.Object{Props: props}
	},
	ast.KindArray: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Array{Elements: w.WalkList(n.(*ast.Array).Elements)}
	},
	ast.KindSeq: func(w *Walker[ast.Node], n ast.Node) ast.Node {
		return &ast.Seq{Exprs: w.WalkList(n.(*ast.Seq).Exprs)}
	},
}

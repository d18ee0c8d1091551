package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/whit3rabbit/jsmixer/internal/ast"
)

func (c *converter) statement(n *sitter.Node) ast.Node {
	switch n.Type() {
	case "expression_statement":
		c.semicolon(n)
		return &ast.Stat{Expr: c.expression(firstNamed(n))}

	case "empty_statement":
		return &ast.Block{}

	case "statement_block":
		return &ast.Block{Body: c.block(n)}

	case "variable_declaration":
		c.semicolon(n)
		return &ast.Var{Defs: c.varDefs(n)}

	case "lexical_declaration":
		if kw := children(n); len(kw) == 0 || kw[0].Type() != "const" {
			c.unsupported(n)
		}
		c.semicolon(n)
		return &ast.Const{Defs: c.varDefs(n)}

	case "if_statement":
		cond := c.parenthesised(n.ChildByFieldName("condition"))
		then := c.statement(n.ChildByFieldName("consequence"))
		var els ast.Node
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				alt = firstNamed(alt)
			}
			els = c.statement(alt)
		}
		return &ast.If{Cond: cond, Then: then, Else: els}

	case "for_statement":
		return c.forStatement(n)

	case "for_in_statement":
		return c.forIn(n)

	case "while_statement":
		cond := c.parenthesised(n.ChildByFieldName("condition"))
		return &ast.While{Cond: cond, Body: c.loopBody(n.ChildByFieldName("body"))}

	case "do_statement":
		body := c.loopBody(n.ChildByFieldName("body"))
		return &ast.Do{Cond: c.parenthesised(n.ChildByFieldName("condition")), Body: body}

	case "break_statement", "continue_statement":
		return c.breakContinue(n)

	case "return_statement":
		if c.inFunction == 0 {
			c.croak("'return' outside of function", n)
		}
		c.semicolon(n)
		var e ast.Node
		if v := firstNamed(n); v != nil {
			e = c.expression(v)
		}
		return &ast.Return{Expr: e}

	case "throw_statement":
		v := firstNamed(n)
		if v.StartPoint().Row > n.StartPoint().Row {
			c.croak("Illegal newline after 'throw'", v)
		}
		c.semicolon(n)
		return &ast.Throw{Expr: c.expression(v)}

	case "try_statement":
		return c.tryStatement(n)

	case "switch_statement":
		return c.switchStatement(n)

	case "labeled_statement":
		return c.labeledStatement(n)

	case "debugger_statement":
		c.semicolon(n)
		return &ast.Debugger{}

	case "with_statement":
		expr := c.parenthesised(n.ChildByFieldName("object"))
		return &ast.With{Expr: expr, Body: c.statement(n.ChildByFieldName("body"))}

	case "function_declaration":
		name, params, body := c.lambda(n)
		return &ast.Defun{Name: name, Params: params, Body: body}
	}
	c.unsupported(n)
	return nil
}

// semicolon enforces an explicit ";" at the end of n when automatic
// insertion is disabled.
func (c *converter) semicolon(n *sitter.Node) {
	if !c.opts.StrictSemicolons {
		return
	}
	list := children(n)
	if len(list) == 0 || list[len(list)-1].Type() != ";" {
		c.croakAfter("Missing semicolon", n)
	}
}

func (c *converter) parenthesised(n *sitter.Node) ast.Node {
	if n.Type() != "parenthesized_expression" {
		c.unsupported(n)
	}
	return c.expression(firstNamed(n))
}

func (c *converter) labeledStatement(n *sitter.Node) ast.Node {
	label := n.ChildByFieldName("label")
	name := c.identifier(label)
	for _, l := range c.labels {
		if l == name {
			c.croak("Label "+name+" defined twice", label)
		}
	}
	c.labels = append(c.labels, name)
	body := c.statement(n.ChildByFieldName("body"))
	c.labels = c.labels[:len(c.labels)-1]
	return &ast.Label{Name: name, Body: body}
}

func (c *converter) breakContinue(n *sitter.Node) ast.Node {
	kw := "break"
	if n.Type() == "continue_statement" {
		kw = "continue"
	}
	label := ""
	if l := n.ChildByFieldName("label"); l != nil {
		label = c.identifier(l)
		found := false
		for _, known := range c.labels {
			if known == label {
				found = true
				break
			}
		}
		if !found {
			c.croak("Label "+label+" without matching loop or statement", l)
		}
	} else if (kw == "break" && c.inBreak == 0) || (kw == "continue" && c.inLoop == 0) {
		c.croak(kw+" not inside a loop or switch", n)
	}
	c.semicolon(n)
	if kw == "break" {
		return &ast.Break{Label: label}
	}
	return &ast.Continue{Label: label}
}

func (c *converter) loopBody(n *sitter.Node) ast.Node {
	c.inLoop++
	c.inBreak++
	defer func() {
		c.inLoop--
		c.inBreak--
	}()
	return c.statement(n)
}

// forClause converts a for header part, which the grammar gives either as
// a bare expression or wrapped in a statement with its ";".
func (c *converter) forClause(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "empty_statement", ";":
		return nil
	case "expression_statement":
		return c.expression(firstNamed(n))
	case "variable_declaration":
		return &ast.Var{Defs: c.varDefs(n)}
	case "lexical_declaration":
		c.unsupported(n)
	}
	return c.expression(n)
}

func (c *converter) forStatement(n *sitter.Node) ast.Node {
	f := &ast.For{
		Init: c.forClause(n.ChildByFieldName("initializer")),
		Cond: c.forClause(n.ChildByFieldName("condition")),
	}
	if step := n.ChildByFieldName("increment"); step != nil {
		f.Step = c.expression(step)
	}
	f.Body = c.loopBody(n.ChildByFieldName("body"))
	return f
}

func (c *converter) forIn(n *sitter.Node) ast.Node {
	if op := n.ChildByFieldName("operator"); op != nil && op.Type() != "in" {
		c.croak("Unsupported syntax: for "+op.Type(), n)
	}
	left := n.ChildByFieldName("left")
	obj := c.expression(n.ChildByFieldName("right"))

	var decl, key ast.Node
	if kind := forInKind(n, left); kind != nil {
		if kind.Type() != "var" {
			c.unsupported(kind)
		}
		def := ast.VarDef{Name: c.identifier(left)}
		if v := n.ChildByFieldName("value"); v != nil {
			def.Value = c.expression(v)
		}
		decl = &ast.Var{Defs: []ast.VarDef{def}}
		key = &ast.Name{Name: def.Name}
	} else {
		key = c.expression(left)
		if !isAssignable(key) {
			c.croak("Invalid left-hand side in for..in loop", left)
		}
	}
	return &ast.ForIn{Init: decl, Key: key, Object: obj, Body: c.loopBody(n.ChildByFieldName("body"))}
}

// forInKind returns the declaration keyword written before the loop
// variable, or nil.
func forInKind(n, left *sitter.Node) *sitter.Node {
	if kind := n.ChildByFieldName("kind"); kind != nil {
		return kind
	}
	for _, ch := range children(n) {
		if ch.StartByte() >= left.StartByte() {
			break
		}
		switch ch.Type() {
		case "var", "let", "const":
			return ch
		}
	}
	return nil
}

func (c *converter) switchStatement(n *sitter.Node) ast.Node {
	expr := c.parenthesised(n.ChildByFieldName("value"))
	c.inBreak++
	defer func() { c.inBreak-- }()

	cases := []ast.Case{}
	for _, clause := range named(n.ChildByFieldName("body")) {
		var cs ast.Case
		stmts := named(clause)
		switch clause.Type() {
		case "switch_case":
			cs.Expr = c.expression(clause.ChildByFieldName("value"))
			stmts = stmts[1:]
		case "switch_default":
		default:
			c.unsupported(clause)
		}
		for _, st := range stmts {
			cs.Body = append(cs.Body, c.statement(st))
		}
		cases = append(cases, cs)
	}
	return &ast.Switch{Expr: expr, Cases: cases}
}

func (c *converter) tryStatement(n *sitter.Node) ast.Node {
	t := &ast.Try{Body: c.block(n.ChildByFieldName("body"))}
	if h := n.ChildByFieldName("handler"); h != nil {
		param := h.ChildByFieldName("parameter")
		if param == nil {
			c.croak("Name expected", h)
		}
		t.Catch = &ast.Catch{Param: c.identifier(param), Body: c.block(h.ChildByFieldName("body"))}
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		t.Finally = &ast.Block{Body: c.block(f.ChildByFieldName("body"))}
	}
	if t.Catch == nil && t.Finally == nil {
		c.croakAfter("Missing catch/finally blocks", n)
	}
	return t
}

// block converts a statement_block and never returns nil.
func (c *converter) block(n *sitter.Node) []ast.Node {
	if n == nil || n.Type() != "statement_block" {
		c.croak("Unexpected token, expected punc \"{\"", n)
	}
	body := []ast.Node{}
	for _, st := range named(n) {
		body = append(body, c.statement(st))
	}
	return body
}

func (c *converter) varDefs(n *sitter.Node) []ast.VarDef {
	var defs []ast.VarDef
	for _, d := range named(n) {
		if d.Type() != "variable_declarator" {
			c.unsupported(d)
		}
		def := ast.VarDef{Name: c.identifier(d.ChildByFieldName("name"))}
		if v := d.ChildByFieldName("value"); v != nil {
			def.Value = c.expression(v)
		}
		defs = append(defs, def)
	}
	return defs
}

// lambda converts the name, parameters and body shared by function
// declarations and expressions.
func (c *converter) lambda(n *sitter.Node) (string, []string, []ast.Node) {
	if hasChild(n, "async", "*") {
		c.croak("Unsupported syntax: async or generator function", n)
	}
	name := ""
	if id := n.ChildByFieldName("name"); id != nil {
		name = c.identifier(id)
	}
	params, body := c.functionBody(n)
	return name, params, body
}

func (c *converter) functionBody(n *sitter.Node) ([]string, []ast.Node) {
	params := []string{}
	c.commaList(n.ChildByFieldName("parameters"), false, func(p *sitter.Node) {
		params = append(params, c.identifier(p))
	})

	loop, brk, labels := c.inLoop, c.inBreak, c.labels
	c.inFunction++
	c.inLoop, c.inBreak, c.labels = 0, 0, nil
	body := c.block(n.ChildByFieldName("body"))
	c.inFunction--
	c.inLoop, c.inBreak, c.labels = loop, brk, labels
	return params, body
}

package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/token"
)

func (c *converter) expression(n *sitter.Node) ast.Node {
	if n == nil {
		c.croak("Unexpected token end of input", n)
	}
	switch n.Type() {
	case "parenthesized_expression":
		return c.expression(firstNamed(n))

	case "sequence_expression":
		return &ast.Seq{Exprs: c.sequence(n, nil)}

	case "identifier", "undefined":
		return &ast.Name{Name: c.identifier(n)}

	case "this":
		return &ast.Name{Name: "this"}

	case "true", "false", "null":
		return &ast.Atom{Name: n.Type()}

	case "number":
		v, err := token.ParseNumber(c.text(n))
		if err != nil {
			c.croak(err.Error(), n)
		}
		return &ast.Num{Value: v}

	case "string":
		v, err := token.DecodeString(c.text(n))
		if err != nil {
			c.croak(err.Error(), n)
		}
		return &ast.String{Value: v}

	case "regex":
		re := &ast.RegExp{Pattern: c.text(n.ChildByFieldName("pattern"))}
		if flags := n.ChildByFieldName("flags"); flags != nil {
			re.Flags = c.text(flags)
		}
		return re

	case "assignment_expression":
		target := c.expression(n.ChildByFieldName("left"))
		if !isAssignable(target) {
			c.croak("Invalid assignment", n)
		}
		return &ast.Assign{Target: target, Value: c.expression(n.ChildByFieldName("right"))}

	case "augmented_assignment_expression":
		opNode := n.ChildByFieldName("operator")
		op, ok := assignOps[opNode.Type()]
		if !ok {
			c.croak("Unsupported syntax: operator "+opNode.Type(), opNode)
		}
		target := c.expression(n.ChildByFieldName("left"))
		if !isAssignable(target) {
			c.croak("Invalid assignment", n)
		}
		return &ast.Assign{Op: op, Target: target, Value: c.expression(n.ChildByFieldName("right"))}

	case "binary_expression":
		opNode := n.ChildByFieldName("operator")
		if _, ok := Precedence[opNode.Type()]; !ok {
			c.croak("Unsupported syntax: operator "+opNode.Type(), opNode)
		}
		return &ast.Binary{
			Op:    opNode.Type(),
			Left:  c.expression(n.ChildByFieldName("left")),
			Right: c.expression(n.ChildByFieldName("right")),
		}

	case "unary_expression":
		opNode := n.ChildByFieldName("operator")
		if !unaryPrefix[opNode.Type()] {
			c.croak("Unsupported syntax: operator "+opNode.Type(), opNode)
		}
		return &ast.UnaryPrefix{Op: opNode.Type(), Expr: c.expression(n.ChildByFieldName("argument"))}

	case "update_expression":
		opNode, arg := n.ChildByFieldName("operator"), n.ChildByFieldName("argument")
		expr := c.expression(arg)
		if !isAssignable(expr) {
			c.croak("Invalid use of "+opNode.Type()+" operator", opNode)
		}
		if opNode.StartByte() < arg.StartByte() {
			return &ast.UnaryPrefix{Op: opNode.Type(), Expr: expr}
		}
		return &ast.UnaryPostfix{Op: opNode.Type(), Expr: expr}

	case "ternary_expression":
		return &ast.Conditional{
			Cond: c.expression(n.ChildByFieldName("condition")),
			Then: c.expression(n.ChildByFieldName("consequence")),
			Else: c.expression(n.ChildByFieldName("alternative")),
		}

	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if hasChild(n, "optional_chain", "?.") || args == nil || args.Type() != "arguments" {
			c.unsupported(n)
		}
		return &ast.Call{Callee: c.expression(n.ChildByFieldName("function")), Args: c.arguments(args)}

	case "new_expression":
		ne := &ast.New{Ctor: c.expression(n.ChildByFieldName("constructor")), Args: []ast.Node{}}
		if args := n.ChildByFieldName("arguments"); args != nil {
			ne.Args = c.arguments(args)
		}
		return ne

	case "member_expression":
		prop := n.ChildByFieldName("property")
		if hasChild(n, "optional_chain", "?.") || prop.Type() == "private_property_identifier" {
			c.unsupported(n)
		}
		return &ast.Dot{Expr: c.expression(n.ChildByFieldName("object")), Prop: c.identifier(prop)}

	case "subscript_expression":
		if hasChild(n, "optional_chain", "?.") {
			c.unsupported(n)
		}
		return &ast.Sub{
			Expr:  c.expression(n.ChildByFieldName("object")),
			Index: c.expression(n.ChildByFieldName("index")),
		}

	case "array":
		return c.array(n)

	case "object":
		return c.object(n)

	case "function", "function_expression":
		name, params, body := c.lambda(n)
		return &ast.Function{Name: name, Params: params, Body: body}
	}
	c.unsupported(n)
	return nil
}

func (c *converter) sequence(n *sitter.Node, out []ast.Node) []ast.Node {
	for _, ch := range named(n) {
		if ch.Type() == "sequence_expression" {
			out = c.sequence(ch, out)
			continue
		}
		out = append(out, c.expression(ch))
	}
	return out
}

// identifier returns the name spelled by an identifier node, escapes
// resolved.
func (c *converter) identifier(n *sitter.Node) string {
	if n == nil {
		c.croak("Name expected", n)
	}
	switch n.Type() {
	case "identifier", "undefined", "property_identifier", "statement_identifier":
	case "object_pattern", "array_pattern", "assignment_pattern", "rest_pattern":
		c.unsupported(n)
	default:
		c.croak("Name expected", n)
	}
	name, err := token.DecodeIdentifier(c.text(n))
	if err != nil {
		c.croak(err.Error(), n)
	}
	return name
}

// commaList calls each for the items of a delimited, comma separated list.
// Elisions are rejected, as is a trailing comma unless allowed.
func (c *converter) commaList(n *sitter.Node, trailing bool, each func(*sitter.Node)) {
	list := children(n)
	if len(list) < 2 {
		c.croak("Unexpected token end of input", n)
	}
	closing := list[len(list)-1]
	expectItem, items := true, 0
	for _, ch := range list[1 : len(list)-1] {
		if ch.Type() == "," {
			if expectItem {
				c.croak(`Unexpected token punc ","`, ch)
			}
			expectItem = true
			continue
		}
		each(ch)
		expectItem = false
		items++
	}
	if expectItem && items > 0 && !trailing {
		c.croak("Unexpected token "+describeToken(c.text(closing)), closing)
	}
}

func (c *converter) arguments(n *sitter.Node) []ast.Node {
	args := []ast.Node{}
	c.commaList(n, false, func(a *sitter.Node) {
		args = append(args, c.expression(a))
	})
	return args
}

func (c *converter) array(n *sitter.Node) ast.Node {
	elems := []ast.Node{}
	expectItem := true
	for _, ch := range children(n) {
		switch ch.Type() {
		case "[", "]":
		case ",":
			if expectItem {
				elems = append(elems, &ast.Atom{Name: "undefined"})
			}
			expectItem = true
		default:
			elems = append(elems, c.expression(ch))
			expectItem = false
		}
	}
	return &ast.Array{Elements: elems}
}

func (c *converter) object(n *sitter.Node) ast.Node {
	props := []ast.Property{}
	c.commaList(n, true, func(p *sitter.Node) {
		switch p.Type() {
		case "pair":
			key, numeric := c.propertyName(p.ChildByFieldName("key"))
			props = append(props, ast.Property{Key: key, Value: c.expression(p.ChildByFieldName("value")), NumericKey: numeric})
		case "method_definition":
			accessor := ""
			for _, ch := range children(p) {
				switch ch.Type() {
				case "get", "set":
					accessor = ch.Type()
				case "static", "async", "*":
					c.unsupported(p)
				}
			}
			if accessor == "" {
				c.unsupported(p)
			}
			key, numeric := c.propertyName(p.ChildByFieldName("name"))
			params, body := c.functionBody(p)
			props = append(props, ast.Property{
				Key:        key,
				Value:      &ast.Function{Params: params, Body: body},
				Accessor:   accessor,
				NumericKey: numeric,
			})
		default:
			c.unsupported(p)
		}
	})
	return &ast.Object{Props: props}
}

func (c *converter) propertyName(n *sitter.Node) (string, bool) {
	switch n.Type() {
	case "number":
		v, err := token.ParseNumber(c.text(n))
		if err != nil {
			c.croak(err.Error(), n)
		}
		return ast.FormatNumber(v), true
	case "string":
		v, err := token.DecodeString(c.text(n))
		if err != nil {
			c.croak(err.Error(), n)
		}
		return v, false
	case "computed_property_name", "private_property_identifier":
		c.unsupported(n)
	}
	return c.identifier(n), false
}

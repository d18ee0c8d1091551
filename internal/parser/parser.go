// Package parser builds an ast.Toplevel from JavaScript source.
//
// Source is parsed with the tree-sitter JavaScript grammar and the
// concrete syntax tree is converted to the ast node set. Constructs the
// node set cannot represent (ES2015 and later syntax) are rejected, as
// are the early errors tree-sitter leaves to the compiler: stray return,
// break and continue, duplicate and unknown labels. Syntax errors are
// raised as panics carrying *Error and returned from Parse.
package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/token"
)

// Error describes a syntax error with 1-based line and column.
type Error = token.SyntaxError

// Options controls parsing.
type Options struct {
	// StrictSemicolons rejects statements that rely on automatic
	// semicolon insertion.
	StrictSemicolons bool

	// OnToken, if set, is called for every token of a successfully parsed
	// program in source order, followed by a token of type EOF.
	OnToken func(token.Token)
}

// assignOps maps assignment operators to the Assign.Op they produce.
var assignOps = map[string]string{
	"=": "", "+=": "+", "-=": "-", "/=": "/", "*=": "*", "%=": "%",
	">>=": ">>", "<<=": "<<", ">>>=": ">>>", "|=": "|", "^=": "^", "&=": "&",
}

var unaryPrefix = map[string]bool{
	"typeof": true, "void": true, "delete": true, "!": true, "~": true, "-": true, "+": true,
}

// Precedence ranks binary operators; higher binds tighter.
var Precedence = func() map[string]int {
	levels := [][]string{
		{"||"},
		{"&&"},
		{"|"},
		{"^"},
		{"&"},
		{"==", "===", "!=", "!=="},
		{"<", ">", "<=", ">=", "in", "instanceof"},
		{">>", "<<", ">>>"},
		{"+", "-"},
		{"*", "/", "%"},
	}
	m := make(map[string]int)
	for i, ops := range levels {
		for _, op := range ops {
			m[op] = i + 1
		}
	}
	return m
}()

type converter struct {
	src  []byte
	opts Options

	inFunction int
	inLoop     int
	inBreak    int // loops and switches
	labels     []string
}

// Parse parses src as a program.
func Parse(src string, opts Options) (tree *ast.Toplevel, err error) {
	content := []byte(src)

	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	st, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer st.Close()

	root := st.RootNode()
	if root.HasError() {
		return nil, syntaxError(content, root)
	}

	c := &converter{src: content, opts: opts}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			tree, err = nil, e
		}
	}()

	body := []ast.Node{}
	for _, n := range named(root) {
		body = append(body, c.statement(n))
	}
	if opts.OnToken != nil {
		emitTokens(content, root, opts.OnToken)
	}
	return &ast.Toplevel{Body: body}, nil
}

func isComment(n *sitter.Node) bool {
	return n.Type() == "comment" || n.Type() == "html_comment"
}

// children returns the children of n, comments excluded.
func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); !isComment(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// named returns the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); !isComment(ch) {
			out = append(out, ch)
		}
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if list := named(n); len(list) > 0 {
		return list[0]
	}
	return nil
}

func hasChild(n *sitter.Node, types ...string) bool {
	for _, ch := range children(n) {
		for _, t := range types {
			if ch.Type() == t {
				return true
			}
		}
	}
	return false
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// position converts a byte offset and tree-sitter point to a 1-based line
// and a 1-based column counted in runes.
func position(src []byte, offset uint32, pt sitter.Point) (line, col int) {
	start := int(offset) - int(pt.Column)
	if start < 0 {
		start = 0
	}
	return int(pt.Row) + 1, utf8.RuneCount(src[start:offset]) + 1
}

func errorAt(src []byte, msg string, offset uint32, pt sitter.Point) *Error {
	line, col := position(src, offset, pt)
	return &Error{Message: msg, Line: line, Col: col, Pos: int(offset)}
}

func (c *converter) croak(msg string, n *sitter.Node) {
	if n == nil {
		panic(&Error{Message: msg, Line: 1, Col: 1})
	}
	panic(errorAt(c.src, msg, n.StartByte(), n.StartPoint()))
}

func (c *converter) croakAfter(msg string, n *sitter.Node) {
	panic(errorAt(c.src, msg, n.EndByte(), n.EndPoint()))
}

func (c *converter) unsupported(n *sitter.Node) {
	c.croak("Unsupported syntax: "+strings.ReplaceAll(n.Type(), "_", " "), n)
}

// syntaxError reports the first ERROR or MISSING node below root.
func syntaxError(src []byte, root *sitter.Node) *Error {
	n := firstError(root)
	if n == nil {
		return errorAt(src, "Unexpected token", root.StartByte(), root.StartPoint())
	}
	if n.IsMissing() {
		return errorAt(src, "Missing "+describeNode(n), n.StartByte(), n.StartPoint())
	}
	leaf := n
	for leaf.ChildCount() > 0 {
		leaf = leaf.Child(0)
	}
	msg := "Unexpected token " + describeToken(leaf.Content(src))
	return errorAt(src, msg, n.StartByte(), n.StartPoint())
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.IsMissing() || ch.HasError() {
			if e := firstError(ch); e != nil {
				return e
			}
		}
	}
	return nil
}

func describeNode(n *sitter.Node) string {
	if n.IsNamed() {
		return strings.ReplaceAll(n.Type(), "_", " ")
	}
	return describeToken(n.Type())
}

// describeToken renders source text as its token type and quoted text.
func describeToken(text string) string {
	typ := token.Classify(text)
	switch r, _ := utf8.DecodeRuneInString(text); {
	case text == "":
		return "end of input"
	case r == '"' || r == '\'':
		return "string " + truncate(text)
	case '0' <= r && r <= '9':
		typ = token.Num
	}
	return fmt.Sprintf("%s %q", typ, truncate(text))
}

func truncate(text string) string {
	const limit = 20
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}

func isAssignable(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Name:
		return v.Name != "this"
	case *ast.Dot, *ast.Sub, *ast.Call:
		return true
	}
	return false
}

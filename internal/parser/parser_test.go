package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/token"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()
	tree, err := Parse(src, Options{})
	require.NoError(t, err, "parsing %q", src)
	return tree.Body
}

func name(n string) ast.Node { return &ast.Name{Name: n} }
func num(v float64) ast.Node { return &ast.Num{Value: v} }
func stat(e ast.Node) ast.Node {
	return &ast.Stat{Expr: e}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want []ast.Node
	}{
		{
			src: "var a = 1, b;",
			want: []ast.Node{&ast.Var{Defs: []ast.VarDef{{Name: "a", Value: num(1)}, {Name: "b"}}}},
		},
		{
			src:  ";",
			want: []ast.Node{&ast.Block{}},
		},
		{
			src: "if (a) b(); else { c = 2 }",
			want: []ast.Node{&ast.If{
				Cond: name("a"),
				Then: stat(&ast.Call{Callee: name("b"), Args: []ast.Node{}}),
				Else: &ast.Block{Body: []ast.Node{stat(&ast.Assign{Target: name("c"), Value: num(2)})}},
			}},
		},
		{
			src: "for (var k in o) continue;",
			want: []ast.Node{&ast.ForIn{
				Init:   &ast.Var{Defs: []ast.VarDef{{Name: "k"}}},
				Key:    name("k"),
				Object: name("o"),
				Body:   &ast.Continue{},
			}},
		},
		{
			src: "for (;;) break",
			want: []ast.Node{&ast.For{Body: &ast.Break{}}},
		},
		{
			src: "out: while (x) { break out; }",
			want: []ast.Node{&ast.Label{Name: "out", Body: &ast.While{
				Cond: name("x"),
				Body: &ast.Block{Body: []ast.Node{&ast.Break{Label: "out"}}},
			}}},
		},
		{
			src: "switch (x) { case 1: a; default: }",
			want: []ast.Node{&ast.Switch{Expr: name("x"), Cases: []ast.Case{
				{Expr: num(1), Body: []ast.Node{stat(name("a"))}},
				{},
			}}},
		},
		{
			src: "try { a } catch (e) { } finally { b }",
			want: []ast.Node{&ast.Try{
				Body:    []ast.Node{stat(name("a"))},
				Catch:   &ast.Catch{Param: "e", Body: []ast.Node{}},
				Finally: &ast.Block{Body: []ast.Node{stat(name("b"))}},
			}},
		},
		{
			src: "function f(a, b) { return a }",
			want: []ast.Node{&ast.Defun{Name: "f", Params: []string{"a", "b"}, Body: []ast.Node{
				&ast.Return{Expr: name("a")},
			}}},
		},
		{
			src: "do x++; while (x < 3)",
			want: []ast.Node{&ast.Do{
				Cond: &ast.Binary{Op: "<", Left: name("x"), Right: num(3)},
				Body: stat(&ast.UnaryPostfix{Op: "++", Expr: name("x")}),
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parse(t, tt.src)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Node
	}{
		{"a + b * c", &ast.Binary{Op: "+", Left: name("a"), Right: &ast.Binary{Op: "*", Left: name("b"), Right: name("c")}}},
		{"a - b - c", &ast.Binary{Op: "-", Left: &ast.Binary{Op: "-", Left: name("a"), Right: name("b")}, Right: name("c")}},
		{"a = b += c", &ast.Assign{Target: name("a"), Value: &ast.Assign{Op: "+", Target: name("b"), Value: name("c")}}},
		{"a ? b : c ? d : e", &ast.Conditional{Cond: name("a"), Then: name("b"),
			Else: &ast.Conditional{Cond: name("c"), Then: name("d"), Else: name("e")}}},
		{"a, b", &ast.Seq{Exprs: []ast.Node{name("a"), name("b")}}},
		{"-x.y[0]()", &ast.UnaryPrefix{Op: "-", Expr: &ast.Call{
			Callee: &ast.Sub{Expr: &ast.Dot{Expr: name("x"), Prop: "y"}, Index: num(0)},
			Args:   []ast.Node{},
		}}},
		{"new A.B(1)", &ast.New{Ctor: &ast.Dot{Expr: name("A"), Prop: "B"}, Args: []ast.Node{num(1)}}},
		{"new A", &ast.New{Ctor: name("A"), Args: []ast.Node{}}},
		{"[1,,2,]", &ast.Array{Elements: []ast.Node{num(1), &ast.Atom{Name: "undefined"}, num(2)}}},
		{"x.default", &ast.Dot{Expr: name("x"), Prop: "default"}},
		{"typeof x == 'y'", &ast.Binary{Op: "==", Left: &ast.UnaryPrefix{Op: "typeof", Expr: name("x")}, Right: &ast.String{Value: "y"}}},
		{"/a+/gi.test(s)", &ast.Call{Callee: &ast.Dot{Expr: &ast.RegExp{Pattern: "a+", Flags: "gi"}, Prop: "test"}, Args: []ast.Node{name("s")}}},
		{"x = /=/", &ast.Assign{Target: name("x"), Value: &ast.RegExp{Pattern: "="}}},
		{"this.a", &ast.Dot{Expr: name("this"), Prop: "a"}},
		{"true && null", &ast.Binary{Op: "&&", Left: &ast.Atom{Name: "true"}, Right: &ast.Atom{Name: "null"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			body := parse(t, tt.src)
			require.Len(t, body, 1)
			got := body[0].(*ast.Stat).Expr
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseObjectLiteral(t *testing.T) {
	body := parse(t, `x = {a: 1, "b c": 2, 3: 4, get d() { return 5 }, if: 6};`)
	got := body[0].(*ast.Stat).Expr.(*ast.Assign).Value
	want := &ast.Object{Props: []ast.Property{
		{Key: "a", Value: num(1)},
		{Key: "b c", Value: num(2)},
		{Key: "3", Value: num(4), NumericKey: true},
		{Key: "d", Accessor: "get", Value: &ast.Function{Params: []string{}, Body: []ast.Node{&ast.Return{Expr: num(5)}}}},
		{Key: "if", Value: num(6)},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("object mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForWithDeclarations(t *testing.T) {
	got := parse(t, "for (var i = 0, n = a.length; i < n; i++) ;")
	want := []ast.Node{&ast.For{
		Init: &ast.Var{Defs: []ast.VarDef{
			{Name: "i", Value: num(0)},
			{Name: "n", Value: &ast.Dot{Expr: name("a"), Prop: "length"}},
		}},
		Cond: &ast.Binary{Op: "<", Left: name("i"), Right: name("n")},
		Step: &ast.UnaryPostfix{Op: "++", Expr: name("i")},
		Body: &ast.Block{},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("for mismatch (-want +got):\n%s", diff)
	}
}

func TestParseComments(t *testing.T) {
	body := parse(t, "a /* c */ + // d\n b; // trailing")
	require.Len(t, body, 1)
	assert.Equal(t, stat(&ast.Binary{Op: "+", Left: name("a"), Right: name("b")}), body[0])
}

func TestParseIdentifierEscapes(t *testing.T) {
	body := parse(t, `var \u0061 = 1; a.\u0062`)
	assert.Equal(t, []ast.Node{
		&ast.Var{Defs: []ast.VarDef{{Name: "a", Value: num(1)}}},
		stat(&ast.Dot{Expr: name("a"), Prop: "b"}),
	}, body)
}

func TestParseLiterals(t *testing.T) {
	body := parse(t, `x = ['it\'s', 0x1F, 017, .5, undefined, /[/]+/g]`)
	got := body[0].(*ast.Stat).Expr.(*ast.Assign).Value
	want := &ast.Array{Elements: []ast.Node{
		&ast.String{Value: "it's"}, num(31), num(15), num(0.5), name("undefined"),
		&ast.RegExp{Pattern: "[/]+", Flags: "g"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
}

func TestAutomaticSemicolons(t *testing.T) {
	body := parse(t, "a\nb\n++c")
	assert.Len(t, body, 3)

	body = parse(t, "function f() { return\n1 }")
	ret := body[0].(*ast.Defun).Body[0].(*ast.Return)
	assert.Nil(t, ret.Expr, "a newline ends the return statement")

	_, err := Parse("a;\nb", Options{StrictSemicolons: true})
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Missing semicolon", perr.Message)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 2, perr.Col)

	_, err = Parse("var a = 1; f(a); do a++; while (a < 3) for (;;) break;", Options{StrictSemicolons: true})
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		msg  string
		line int
		col  int
	}{
		{"return 1", "'return' outside of function", 1, 1},
		{"break", "break not inside a loop or switch", 1, 1},
		{"switch (x) { case 1: continue; }", "continue not inside a loop or switch", 1, 22},
		{"while (1) { continue foo }", "Label foo without matching loop or statement", 1, 22},
		{"a: a: ;", "Label a defined twice", 1, 4},
		{"l: function f() { break l }", "Label l without matching loop or statement", 1, 25},
		{"try {}", "Missing catch/finally blocks", 1, 7},
		{"(1) = 2", "Invalid assignment", 1, 1},
		{"throw\nx", "Illegal newline after 'throw'", 2, 1},
		{"for ((1) in c);", "Invalid left-hand side in for..in loop", 1, 6},
		{"x = 'é'; break", "break not inside a loop or switch", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, Options{})
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.msg, perr.Message)
			assert.Equal(t, tt.line, perr.Line, "line")
			assert.Equal(t, tt.col, perr.Col, "col")
		})
	}
}

func TestRejectsLaterSyntax(t *testing.T) {
	tests := []struct {
		src string
		msg string
		col int
	}{
		{"x => x", "Unsupported syntax: arrow function", 1},
		{"let a = 1", "Unsupported syntax: lexical declaration", 1},
		{"class A {}", "Unsupported syntax: class declaration", 1},
		{"a ** b", "Unsupported syntax: operator **", 3},
		{"x = `t`", "Unsupported syntax: template string", 5},
		{"for (var k of o);", "Unsupported syntax: for of", 1},
		{"x = {a}", "Unsupported syntax: shorthand property identifier", 6},
		{"f(...a)", "Unsupported syntax: spread element", 3},
		{"x = 0b11", "Invalid syntax: 0b11", 5},
		{"function f(a = 1) {}", "Unsupported syntax: assignment pattern", 12},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, Options{})
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.msg, perr.Message)
			assert.Equal(t, 1, perr.Line)
			assert.Equal(t, tt.col, perr.Col, "col")
		})
	}
}

func TestSyntaxErrorsCarryTheirLine(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"var = 1", 1},
		{"if (a { }", 1},
		{"var s = 'open", 1},
		{"a = 1;\nb = 2;\nvar = 3;", 3},
		{"a = 1;\n/* open", 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, Options{})
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Message)
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, err.Error(), "(line: ")
		})
	}
}

func TestOnToken(t *testing.T) {
	var types []token.TokenType
	_, err := Parse("a = /x/;", Options{OnToken: func(tok token.Token) {
		types = append(types, tok.Type)
	}})
	require.NoError(t, err)
	assert.Equal(t, []token.TokenType{token.Name, token.Operator, token.RegExp, token.Punc, token.EOF}, types)
}

func TestOnTokenPositions(t *testing.T) {
	var toks []token.Token
	_, err := Parse("a; // c\n/* b\n */ bc in 'é'\n", Options{OnToken: func(tok token.Token) {
		toks = append(toks, tok)
	}})
	require.NoError(t, err)
	require.Len(t, toks, 6)

	assert.Equal(t, token.Token{Type: token.Name, Value: "a", Line: 1, Col: 1, Pos: 0, End: 1}, toks[0])
	assert.Equal(t, token.Token{Type: token.Punc, Value: ";", Line: 1, Col: 2, Pos: 1, End: 2}, toks[1])
	assert.Equal(t, token.Token{Type: token.Name, Value: "bc", Line: 3, Col: 5, Pos: 17, End: 19, NLB: true}, toks[2])
	assert.Equal(t, token.Token{Type: token.Operator, Value: "in", Line: 3, Col: 8, Pos: 20, End: 22}, toks[3])
	assert.Equal(t, token.Token{Type: token.String, Value: "'é'", Line: 3, Col: 11, Pos: 23, End: 27}, toks[4])
	assert.Equal(t, token.Token{Type: token.EOF, Line: 4, Col: 1, Pos: 28, End: 28, NLB: true}, toks[5])
}

func TestOnTokenNotCalledOnError(t *testing.T) {
	called := false
	_, err := Parse("let x", Options{OnToken: func(token.Token) { called = true }})
	require.Error(t, err)
	assert.False(t, called)
}

func TestContextWindow(t *testing.T) {
	src := "one\ntwo\nthree\nfour\nfive"
	assert.Equal(t, "\t2:\ttwo\n->\t3:\tthree\n\t4:\tfour", ContextWindow(src, 3, 1))
	assert.Equal(t, "->\t1:\tone\n\t2:\ttwo", ContextWindow(src, 1, 1))
	assert.Equal(t, "\t4:\tfour\n->\t5:\tfive", ContextWindow(src, 5, 1))
}

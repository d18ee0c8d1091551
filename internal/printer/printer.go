// Package printer renders an AST back to JavaScript source, either
// compact or indented.
package printer

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/whit3rabbit/jsmixer/internal/ast"
	"github.com/whit3rabbit/jsmixer/internal/parser"
	"github.com/whit3rabbit/jsmixer/internal/token"
	"github.com/whit3rabbit/jsmixer/internal/walker"
)

// Options controls code generation.
type Options struct {
	Beautify    bool
	IndentStart int
	IndentLevel int
	// QuoteKeys quotes every object key.
	QuoteKeys bool
	// SpaceColon puts a space before the colon of object properties in
	// beautified output.
	SpaceColon bool
	// ASCIIOnly escapes every non-ASCII character.
	ASCIIOnly bool
	// InlineScript escapes "</script" so the output can be embedded in an
	// HTML script element.
	InlineScript bool
	// MaxLineLen, when positive, splits compact output into lines of
	// roughly that many bytes.
	MaxLineLen int
}

// DefaultOptions returns compact output settings.
func DefaultOptions() Options {
	return Options{IndentLevel: 4}
}

// Generate renders tree as source text. A node kind without a renderer
// aborts generation with a *walker.UnknownKindError.
func Generate(tree ast.Node, opts Options) (out string, err error) {
	defer walker.Recover(&err)

	p := &printer{opts: opts}
	w := walker.New(p.table())
	out = w.Walk(tree)
	if opts.MaxLineLen > 0 && !opts.Beautify {
		return SplitLines(out, opts.MaxLineLen)
	}
	return out, nil
}

type printer struct {
	opts        Options
	indentation float64
	// noIn is set while printing a for loop initializer, where a bare "in"
	// would be read as a for-in loop.
	noIn bool
}

type gen = walker.Walker[string]

func (p *printer) table() *walker.Table[string] {
	return &walker.Table[string]{
		ast.KindName:         p.genName,
		ast.KindNum:          p.genNum,
		ast.KindString:       p.genString,
		ast.KindRegExp:       p.genRegExp,
		ast.KindAtom:         p.genAtom,
		ast.KindToplevel:     p.genToplevel,
		ast.KindBlock:        p.genBlock,
		ast.KindStat:         p.genStat,
		ast.KindVar:          p.genVar,
		ast.KindConst:        p.genConst,
		ast.KindIf:           p.genIf,
		ast.KindFor:          p.genFor,
		ast.KindForIn:        p.genForIn,
		ast.KindWhile:        p.genWhile,
		ast.KindDo:           p.genDo,
		ast.KindSwitch:       p.genSwitch,
		ast.KindTry:          p.genTry,
		ast.KindThrow:        p.genThrow,
		ast.KindReturn:       p.genReturn,
		ast.KindBreak:        p.genBreak,
		ast.KindContinue:     p.genContinue,
		ast.KindLabel:        p.genLabel,
		ast.KindWith:         p.genWith,
		ast.KindDebugger:     p.genDebugger,
		ast.KindAssign:       p.genAssign,
		ast.KindBinary:       p.genBinary,
		ast.KindUnaryPrefix:  p.genUnaryPrefix,
		ast.KindUnaryPostfix: p.genUnaryPostfix,
		ast.KindConditional:  p.genConditional,
		ast.KindDot:          p.genDot,
		ast.KindSub:          p.genSub,
		ast.KindCall:         p.genCall,
		ast.KindNew:          p.genNew,
		ast.KindFunction:     p.genFunction,
		ast.KindDefun:        p.genDefun,
		ast.KindObject:       p.genObject,
		ast.KindArray:        p.genArray,
		ast.KindSeq:          p.genSeq,
	}
}

// --- layout helpers ---

func (p *printer) indent(line string) string {
	if !p.opts.Beautify {
		return line
	}
	n := p.opts.IndentStart + int(p.indentation*float64(p.opts.IndentLevel))
	return strings.Repeat(" ", n) + line
}

func (p *printer) withIndent(inc float64, cont func() string) string {
	saved := p.indentation
	p.indentation += inc
	defer func() { p.indentation = saved }()
	return cont()
}

func (p *printer) newline() string {
	if p.opts.Beautify {
		return "\n"
	}
	return ""
}

func (p *printer) space() string {
	if p.opts.Beautify {
		return " "
	}
	return ""
}

func (p *printer) addCommas(parts []string) string {
	if p.opts.Beautify {
		return strings.Join(parts, ", ")
	}
	return strings.Join(parts, ",")
}

// addSpaces joins non-empty parts. Compact output only gets a space where
// two tokens would otherwise merge.
func (p *printer) addSpaces(parts ...string) string {
	var b strings.Builder
	prev := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if prev != "" && (p.opts.Beautify || needsSpace(prev, part)) {
			b.WriteByte(' ')
		}
		b.WriteString(part)
		prev = part
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' || r == '$' || r == '\\' || r >= utf8.RuneSelf ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

func needsSpace(prev, next string) bool {
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(next)
	switch {
	case isWordChar(last) && isWordChar(first):
		return true
	case (last == '+' || last == '-') && (first == '+' || first == '-'):
		return true
	case last == '<' && strings.HasPrefix(next, "!--"):
		return true
	case last == '/' && first == '/':
		// "//" would start a comment
		return true
	case last == '/' && len(prev) > 1 && isWordChar(first):
		// regexp literal followed by a word would read as flags
		return true
	}
	return false
}

func trimSemicolons(code string) string {
	t := strings.TrimRightFunc(code, unicode.IsSpace)
	if !strings.HasSuffix(t, ";") {
		return code
	}
	return strings.TrimRight(t, ";")
}

func (p *printer) parenthesize(w *gen, n ast.Node, kinds ...ast.Kind) string {
	out := w.Walk(n)
	if n != nil && slices.Contains(kinds, n.Kind()) {
		return "(" + out + ")"
	}
	return out
}

// needsParens reports whether n must be wrapped when it is the operand of
// a call, member access or unary operator. Function and object literals
// wrap themselves when they open a statement.
func needsParens(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Name, *ast.Atom, *ast.Array, *ast.Object, *ast.String, *ast.Dot,
		*ast.Sub, *ast.Call, *ast.RegExp, *ast.Defun, *ast.Function:
		return false
	case *ast.New:
		return len(v.Args) == 0
	}
	return true
}

// leadsStatement reports whether the node being printed is the first
// token of an expression statement.
func leadsStatement(w *gen) bool {
	stack := w.Stack()
	self := stack.Current()
	for i := 1; ; i++ {
		parent := stack.Parent(i)
		var first ast.Node
		switch v := parent.(type) {
		case *ast.Stat:
			return true
		case *ast.Seq:
			first = v.Exprs[0]
		case *ast.Call:
			first = v.Callee
		case *ast.Dot:
			first = v.Expr
		case *ast.Sub:
			first = v.Expr
		case *ast.Conditional:
			first = v.Cond
		case *ast.Binary:
			first = v.Left
		case *ast.Assign:
			first = v.Target
		case *ast.UnaryPostfix:
			first = v.Expr
		default:
			return false
		}
		if first != self {
			return false
		}
		self = parent
	}
}

func (p *printer) makeName(name string) string {
	if p.opts.ASCIIOnly {
		return toASCII(name)
	}
	return name
}

// --- statements ---

func (p *printer) blockStatements(w *gen, stmts []ast.Node, noIndent bool) []string {
	last := len(stmts) - 1
	out := make([]string, 0, len(stmts))
	for i, st := range stmts {
		code := w.Walk(st)
		if code == ";" {
			continue
		}
		if !p.opts.Beautify && i == last && !mustHaveSemicolon(st) {
			code = trimSemicolons(code)
		}
		out = append(out, code)
	}
	if !noIndent {
		for i := range out {
			out[i] = p.indent(out[i])
		}
	}
	return out
}

func (p *printer) makeBlock(w *gen, stmts []ast.Node) string {
	if stmts == nil {
		return ";"
	}
	if len(stmts) == 0 {
		return "{}"
	}
	body := p.withIndent(1, func() string {
		return strings.Join(p.blockStatements(w, stmts, false), p.newline())
	})
	return "{" + p.newline() + body + p.newline() + p.indent("}")
}

// mustHaveSemicolon reports whether the trailing semicolon of a final
// statement is its (empty) body and may not be dropped.
func mustHaveSemicolon(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.With:
		return ast.IsEmptyStatement(v.Body) || mustHaveSemicolon(v.Body)
	case *ast.While:
		return ast.IsEmptyStatement(v.Body) || mustHaveSemicolon(v.Body)
	case *ast.Label:
		return ast.IsEmptyStatement(v.Body) || mustHaveSemicolon(v.Body)
	case *ast.For:
		return ast.IsEmptyStatement(v.Body) || mustHaveSemicolon(v.Body)
	case *ast.ForIn:
		return ast.IsEmptyStatement(v.Body) || mustHaveSemicolon(v.Body)
	case *ast.If:
		if ast.IsEmptyStatement(v.Then) && v.Else == nil {
			return true
		}
		if v.Else != nil {
			if ast.IsEmptyStatement(v.Else) {
				return true
			}
			return mustHaveSemicolon(v.Else)
		}
		return mustHaveSemicolon(v.Then)
	}
	return false
}

// makeThen renders the consequent of an if with an else branch, wrapping
// it in braces when a nested if without else would capture the else.
func (p *printer) makeThen(w *gen, then ast.Node) string {
	if then == nil {
		return ";"
	}
	if _, ok := then.(*ast.Do); ok {
		return w.Walk(&ast.Block{Body: []ast.Node{then}})
	}
	b := then
	for {
		switch v := b.(type) {
		case *ast.If:
			if v.Else == nil {
				return w.Walk(&ast.Block{Body: []ast.Node{then}})
			}
			b = v.Else
		case *ast.While:
			b = v.Body
		case *ast.Do:
			b = v.Body
		case *ast.For:
			b = v.Body
		case *ast.ForIn:
			b = v.Body
		case *ast.With:
			b = v.Body
		case *ast.Label:
			b = v.Body
		default:
			return w.Walk(then)
		}
	}
}

func (p *printer) genToplevel(w *gen, n ast.Node) string {
	nl := p.newline()
	return strings.Join(p.blockStatements(w, n.(*ast.Toplevel).Body, false), nl+nl)
}

func (p *printer) genBlock(w *gen, n ast.Node) string {
	return p.makeBlock(w, n.(*ast.Block).Body)
}

func (p *printer) genStat(w *gen, n ast.Node) string {
	return trimSemicolons(w.Walk(n.(*ast.Stat).Expr)) + ";"
}

func (p *printer) genDefs(w *gen, keyword string, defs []ast.VarDef) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		name := p.makeName(d.Name)
		if d.Value != nil {
			name = p.addSpaces(name, "=", p.parenthesize(w, d.Value, ast.KindSeq))
		}
		parts[i] = name
	}
	return keyword + " " + p.addCommas(parts) + ";"
}

func (p *printer) genVar(w *gen, n ast.Node) string {
	return p.genDefs(w, "var", n.(*ast.Var).Defs)
}

func (p *printer) genConst(w *gen, n ast.Node) string {
	return p.genDefs(w, "const", n.(*ast.Const).Defs)
}

func (p *printer) genIf(w *gen, n ast.Node) string {
	v := n.(*ast.If)
	out := []string{"if", "(" + w.Walk(v.Cond) + ")"}
	if v.Else != nil {
		out = append(out, p.makeThen(w, v.Then), "else", w.Walk(v.Else))
	} else if v.Then == nil {
		out = append(out, ";")
	} else {
		out = append(out, w.Walk(v.Then))
	}
	return p.addSpaces(out...)
}

func (p *printer) genFor(w *gen, n ast.Node) string {
	v := n.(*ast.For)
	saved := p.noIn
	p.noIn = true
	init := trimSemicolons(w.Walk(v.Init))
	p.noIn = saved

	args := init + ";" + p.space() +
		trimSemicolons(w.Walk(v.Cond)) + ";" + p.space() +
		trimSemicolons(w.Walk(v.Step))
	if args == "; ; " {
		args = ";;"
	}
	return p.addSpaces("for", "("+args+")", w.Walk(v.Body))
}

func (p *printer) genForIn(w *gen, n ast.Node) string {
	v := n.(*ast.ForIn)
	var init string
	if v.Init != nil {
		saved := p.noIn
		p.noIn = true
		init = trimSemicolons(w.Walk(v.Init))
		p.noIn = saved
	} else {
		init = w.Walk(v.Key)
	}
	return p.addSpaces("for", "("+init, "in", w.Walk(v.Object)+")", w.Walk(v.Body))
}

func (p *printer) genWhile(w *gen, n ast.Node) string {
	v := n.(*ast.While)
	return p.addSpaces("while", "("+w.Walk(v.Cond)+")", w.Walk(v.Body))
}

func (p *printer) genDo(w *gen, n ast.Node) string {
	v := n.(*ast.Do)
	return p.addSpaces("do", w.Walk(v.Body), "while", "("+w.Walk(v.Cond)+")") + ";"
}

func (p *printer) genSwitch(w *gen, n ast.Node) string {
	v := n.(*ast.Switch)
	return p.addSpaces("switch", "("+w.Walk(v.Expr)+")", p.switchBlock(w, v.Cases))
}

func (p *printer) switchBlock(w *gen, cases []ast.Case) string {
	if len(cases) == 0 {
		return "{}"
	}
	parts := make([]string, len(cases))
	for i, c := range cases {
		code := p.withIndent(0.5, func() string {
			if c.Expr != nil {
				return p.indent(p.addSpaces("case", w.Walk(c.Expr)+":"))
			}
			return p.indent("default:")
		})
		hasBody := len(c.Body) > 0
		if hasBody {
			code += p.newline() + p.withIndent(1, func() string {
				return strings.Join(p.blockStatements(w, c.Body, false), p.newline())
			})
		}
		if !p.opts.Beautify && hasBody && i < len(cases)-1 {
			code += ";"
		}
		parts[i] = code
	}
	return "{" + p.newline() + strings.Join(parts, p.newline()) + p.newline() + p.indent("}")
}

func (p *printer) genTry(w *gen, n ast.Node) string {
	v := n.(*ast.Try)
	out := []string{"try", p.makeBlock(w, nonNil(v.Body))}
	if v.Catch != nil {
		out = append(out, "catch", "("+p.makeName(v.Catch.Param)+")", p.makeBlock(w, nonNil(v.Catch.Body)))
	}
	if v.Finally != nil {
		out = append(out, "finally", p.makeBlock(w, nonNil(v.Finally.Body)))
	}
	return p.addSpaces(out...)
}

func nonNil(body []ast.Node) []ast.Node {
	if body == nil {
		return []ast.Node{}
	}
	return body
}

func (p *printer) genThrow(w *gen, n ast.Node) string {
	return p.addSpaces("throw", w.Walk(n.(*ast.Throw).Expr)) + ";"
}

func (p *printer) genReturn(w *gen, n ast.Node) string {
	return p.addSpaces("return", w.Walk(n.(*ast.Return).Expr)) + ";"
}

func (p *printer) genBreak(_ *gen, n ast.Node) string {
	if l := n.(*ast.Break).Label; l != "" {
		return "break " + p.makeName(l) + ";"
	}
	return "break;"
}

func (p *printer) genContinue(_ *gen, n ast.Node) string {
	if l := n.(*ast.Continue).Label; l != "" {
		return "continue " + p.makeName(l) + ";"
	}
	return "continue;"
}

func (p *printer) genLabel(w *gen, n ast.Node) string {
	v := n.(*ast.Label)
	return p.addSpaces(p.makeName(v.Name), ":", w.Walk(v.Body))
}

func (p *printer) genWith(w *gen, n ast.Node) string {
	v := n.(*ast.With)
	return p.addSpaces("with", "("+w.Walk(v.Expr)+")", w.Walk(v.Body))
}

func (p *printer) genDebugger(_ *gen, _ ast.Node) string { return "debugger;" }

// --- functions and literals ---

func (p *printer) makeFunction(w *gen, keyword, name string, params []string, body []ast.Node) string {
	out := keyword
	if name != "" {
		out += " " + name
	}
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = p.makeName(param)
	}
	out += "(" + p.addCommas(names) + ")"
	return p.addSpaces(out, p.makeBlock(w, nonNil(body)))
}

func (p *printer) genFunction(w *gen, n ast.Node) string {
	v := n.(*ast.Function)
	out := p.makeFunction(w, "function", p.makeName(v.Name), v.Params, v.Body)
	if leadsStatement(w) {
		return "(" + out + ")"
	}
	return out
}

func (p *printer) genDefun(w *gen, n ast.Node) string {
	v := n.(*ast.Defun)
	return p.makeFunction(w, "function", p.makeName(v.Name), v.Params, v.Body)
}

func (p *printer) genName(_ *gen, n ast.Node) string { return p.makeName(n.(*ast.Name).Name) }
func (p *printer) genAtom(_ *gen, n ast.Node) string { return p.makeName(n.(*ast.Atom).Name) }
func (p *printer) genNum(_ *gen, n ast.Node) string  { return makeNum(n.(*ast.Num).Value) }

func (p *printer) genString(_ *gen, n ast.Node) string {
	return p.encodeString(n.(*ast.String).Value)
}

func (p *printer) genRegExp(_ *gen, n ast.Node) string {
	v := n.(*ast.RegExp)
	pattern := v.Pattern
	if p.opts.ASCIIOnly {
		pattern = toASCII(pattern)
	}
	return "/" + pattern + "/" + v.Flags
}

func (p *printer) propertyKey(prop ast.Property) string {
	key := prop.Key
	if p.opts.QuoteKeys {
		return p.encodeString(key)
	}
	if prop.NumericKey || (!p.opts.Beautify && isCanonicalNumber(key)) {
		if f, ok := parseNumber(key); ok && f >= 0 {
			return makeNum(f)
		}
	}
	if !token.IsIdentifier(key) {
		return p.encodeString(key)
	}
	return p.makeName(key)
}

func (p *printer) genObject(w *gen, n ast.Node) string {
	v := n.(*ast.Object)
	wrap := leadsStatement(w)
	if len(v.Props) == 0 {
		if wrap {
			return "({})"
		}
		return "{}"
	}
	body := p.withIndent(1, func() string {
		parts := make([]string, len(v.Props))
		for i, prop := range v.Props {
			key := p.propertyKey(prop)
			if prop.Accessor != "" {
				fn, _ := prop.Value.(*ast.Function)
				if fn == nil {
					fn = &ast.Function{}
				}
				parts[i] = p.indent(p.makeFunction(w, prop.Accessor, key, fn.Params, fn.Body))
				continue
			}
			val := p.parenthesize(w, prop.Value, ast.KindSeq)
			if p.opts.Beautify && p.opts.SpaceColon {
				parts[i] = p.indent(p.addSpaces(key, ":", val))
			} else {
				parts[i] = p.indent(p.addSpaces(key+":", val))
			}
		}
		return strings.Join(parts, ","+p.newline())
	})
	out := "{" + p.newline() + body + p.newline() + p.indent("}")
	if wrap {
		return "(" + out + ")"
	}
	return out
}

func (p *printer) genArray(w *gen, n ast.Node) string {
	v := n.(*ast.Array)
	if len(v.Elements) == 0 {
		return "[]"
	}
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		if a, ok := el.(*ast.Atom); ok && a.Name == "undefined" {
			// hole
			if i == len(v.Elements)-1 {
				parts[i] = ","
			}
			continue
		}
		parts[i] = p.parenthesize(w, el, ast.KindSeq)
	}
	return p.addSpaces("[", p.addCommas(parts), "]")
}

// --- expressions ---

func (p *printer) genSeq(w *gen, n ast.Node) string {
	v := n.(*ast.Seq)
	parts := make([]string, len(v.Exprs))
	for i, e := range v.Exprs {
		parts[i] = p.parenthesize(w, e, ast.KindSeq)
	}
	return p.addCommas(parts)
}

func (p *printer) genAssign(w *gen, n ast.Node) string {
	v := n.(*ast.Assign)
	return p.addSpaces(w.Walk(v.Target), v.Op+"=", p.parenthesize(w, v.Value, ast.KindSeq))
}

func (p *printer) genConditional(w *gen, n ast.Node) string {
	v := n.(*ast.Conditional)
	return p.addSpaces(
		p.parenthesize(w, v.Cond, ast.KindAssign, ast.KindSeq, ast.KindConditional), "?",
		p.parenthesize(w, v.Then, ast.KindSeq), ":",
		p.parenthesize(w, v.Else, ast.KindSeq),
	)
}

func (p *printer) genBinary(w *gen, n ast.Node) string {
	v := n.(*ast.Binary)
	left := w.Walk(v.Left)
	right := w.Walk(v.Right)
	prec := parser.Precedence[v.Op]

	switch l := v.Left.(type) {
	case *ast.Assign, *ast.Conditional, *ast.Seq:
		left = "(" + left + ")"
	case *ast.Binary:
		if prec > parser.Precedence[l.Op] {
			left = "(" + left + ")"
		}
	}
	switch r := v.Right.(type) {
	case *ast.Assign, *ast.Conditional, *ast.Seq:
		right = "(" + right + ")"
	case *ast.Binary:
		associative := r.Op == v.Op && (v.Op == "&&" || v.Op == "||")
		if prec >= parser.Precedence[r.Op] && !associative {
			right = "(" + right + ")"
		}
	case *ast.RegExp:
		if p.opts.InlineScript && (v.Op == "<" || v.Op == "<<") && strings.HasPrefix(strings.ToLower(r.Pattern), "script") {
			right = " " + right
		}
	}

	out := p.addSpaces(left, v.Op, right)
	if p.noIn && v.Op == "in" {
		return "(" + out + ")"
	}
	return out
}

func (p *printer) genUnaryPrefix(w *gen, n ast.Node) string {
	v := n.(*ast.UnaryPrefix)
	val := w.Walk(v.Expr)
	_, isNum := v.Expr.(*ast.Num)
	inner, isPrefix := v.Expr.(*ast.UnaryPrefix)
	if !(isNum || (isPrefix && !token.IsOperator(v.Op+inner.Op)) || !needsParens(v.Expr)) {
		val = "(" + val + ")"
	}
	if r, _ := utf8.DecodeRuneInString(v.Op); token.IsIdentifierStart(r) {
		return v.Op + " " + val
	}
	if (v.Op == "+" || v.Op == "-") && strings.HasPrefix(val, v.Op) {
		return v.Op + " " + val
	}
	return v.Op + val
}

func (p *printer) genUnaryPostfix(w *gen, n ast.Node) string {
	v := n.(*ast.UnaryPostfix)
	val := w.Walk(v.Expr)
	if needsParens(v.Expr) {
		val = "(" + val + ")"
	}
	return val + v.Op
}

func (p *printer) genDot(w *gen, n ast.Node) string {
	v := n.(*ast.Dot)
	out := w.Walk(v.Expr)
	if _, ok := v.Expr.(*ast.Num); ok {
		if isDigits(out) {
			out += "."
		}
	} else if needsParens(v.Expr) {
		out = "(" + out + ")"
	}
	return out + "." + p.makeName(v.Prop)
}

func (p *printer) genSub(w *gen, n ast.Node) string {
	v := n.(*ast.Sub)
	out := w.Walk(v.Expr)
	if needsParens(v.Expr) {
		out = "(" + out + ")"
	}
	return out + "[" + w.Walk(v.Index) + "]"
}

func (p *printer) args(w *gen, args []ast.Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.parenthesize(w, a, ast.KindSeq)
	}
	return p.addCommas(parts)
}

func (p *printer) genCall(w *gen, n ast.Node) string {
	v := n.(*ast.Call)
	f := w.Walk(v.Callee)
	if needsParens(v.Callee) {
		f = "(" + f + ")"
	}
	return f + "(" + p.args(w, v.Args) + ")"
}

func (p *printer) genNew(w *gen, n ast.Node) string {
	v := n.(*ast.New)
	args := ""
	if len(v.Args) > 0 {
		args = "(" + p.args(w, v.Args) + ")"
	}
	ctor := w.Walk(v.Ctor)
	switch v.Ctor.(type) {
	case *ast.Seq, *ast.Binary, *ast.Conditional, *ast.Assign, *ast.UnaryPrefix, *ast.UnaryPostfix:
		ctor = "(" + ctor + ")"
	default:
		if containsCall(v.Ctor) {
			ctor = "(" + ctor + ")"
		}
	}
	return p.addSpaces("new", ctor+args)
}

// containsCall reports whether a call occurs in n outside nested
// functions; such a constructor expression needs parentheses.
func containsCall(n ast.Node) bool {
	return walker.Any(n, func(x ast.Node) (bool, bool) {
		switch x.(type) {
		case *ast.Call:
			return true, false
		case *ast.Function:
			return false, false
		}
		return false, true
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Package ast defines the tagged node model shared by the parser, walker,
// mangler and printer.
package ast

import "fmt"

// Kind identifies the shape of a node. The set is closed; walkers index
// their handler tables by it.
type Kind uint8

const (
	KindName Kind = iota
	KindNum
	KindString
	KindRegExp
	KindAtom
	KindToplevel
	KindBlock
	KindStat
	KindVar
	KindConst
	KindIf
	KindFor
	KindForIn
	KindWhile
	KindDo
	KindSwitch
	KindTry
	KindThrow
	KindReturn
	KindBreak
	KindContinue
	KindLabel
	KindWith
	KindDebugger
	KindAssign
	KindBinary
	KindUnaryPrefix
	KindUnaryPostfix
	KindConditional
	KindDot
	KindSub
	KindCall
	KindNew
	KindFunction
	KindDefun
	KindObject
	KindArray
	KindSeq

	// KindCount is the number of valid kinds.
	KindCount
)

var kindNames = [KindCount]string{
	KindName:         "name",
	KindNum:          "num",
	KindString:       "string",
	KindRegExp:       "regexp",
	KindAtom:         "atom",
	KindToplevel:     "toplevel",
	KindBlock:        "block",
	KindStat:         "stat",
	KindVar:          "var",
	KindConst:        "const",
	KindIf:           "if",
	KindFor:          "for",
	KindForIn:        "for-in",
	KindWhile:        "while",
	KindDo:           "do",
	KindSwitch:       "switch",
	KindTry:          "try",
	KindThrow:        "throw",
	KindReturn:       "return",
	KindBreak:        "break",
	KindContinue:     "continue",
	KindLabel:        "label",
	KindWith:         "with",
	KindDebugger:     "debugger",
	KindAssign:       "assign",
	KindBinary:       "binary",
	KindUnaryPrefix:  "unary-prefix",
	KindUnaryPostfix: "unary-postfix",
	KindConditional:  "conditional",
	KindDot:          "dot",
	KindSub:          "sub",
	KindCall:         "call",
	KindNew:          "new",
	KindFunction:     "function",
	KindDefun:        "defun",
	KindObject:       "object",
	KindArray:        "array",
	KindSeq:          "seq",
}

func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k < KindCount }

// Node is implemented by every AST node. Nodes are always pointers.
type Node interface {
	Kind() Kind
}

// Leaf nodes.
type (
	Name struct {
		Name string
	}
	Num struct {
		Value float64
	}
	String struct {
		Value string
	}
	RegExp struct {
		Pattern string
		Flags   string
	}
	// Atom is one of true, false, null or undefined.
	Atom struct {
		Name string
	}
)

// Statements.
type (
	Toplevel struct {
		Body []Node
	}
	// Block with a nil Body is the empty statement ";".
	Block struct {
		Body []Node
	}
	Stat struct {
		Expr Node
	}
	VarDef struct {
		Name  string
		Value Node // optional
	}
	Var struct {
		Defs []VarDef
	}
	Const struct {
		Defs []VarDef
	}
	If struct {
		Cond Node
		Then Node
		Else Node // optional
	}
	For struct {
		Init Node // optional
		Cond Node // optional
		Step Node // optional
		Body Node
	}
	// ForIn keeps the declaration (when written as "for (var k in o)") and
	// the assignment target separately.
	ForIn struct {
		Init   Node // *Var or nil
		Key    Node
		Object Node
		Body   Node
	}
	While struct {
		Cond Node
		Body Node
	}
	Do struct {
		Cond Node
		Body Node
	}
	Case struct {
		Expr Node // nil for default
		Body []Node
	}
	Switch struct {
		Expr  Node
		Cases []Case
	}
	Catch struct {
		Param string
		Body  []Node
	}
	Try struct {
		Body    []Node
		Catch   *Catch // optional
		Finally *Block // optional
	}
	Throw struct {
		Expr Node
	}
	Return struct {
		Expr Node // optional
	}
	Break struct {
		Label string
	}
	Continue struct {
		Label string
	}
	Label struct {
		Name string
		Body Node
	}
	With struct {
		Expr Node
		Body Node
	}
	Debugger struct{}
)

// Expressions.
type (
	// Assign with an empty Op is plain "="; otherwise Op is the binary
	// operator of a compound assignment ("+" for "+=").
	Assign struct {
		Op     string
		Target Node
		Value  Node
	}
	Binary struct {
		Op    string
		Left  Node
		Right Node
	}
	UnaryPrefix struct {
		Op   string
		Expr Node
	}
	UnaryPostfix struct {
		Op   string
		Expr Node
	}
	Conditional struct {
		Cond Node
		Then Node
		Else Node
	}
	Dot struct {
		Expr Node
		Prop string
	}
	Sub struct {
		Expr  Node
		Index Node
	}
	Call struct {
		Callee Node
		Args   []Node
	}
	New struct {
		Ctor Node
		Args []Node
	}
	Function struct {
		Name   string // optional
		Params []string
		Body   []Node
	}
	Defun struct {
		Name   string
		Params []string
		Body   []Node
	}
	// Property is a key/value pair, or a getter/setter when Accessor is
	// "get" or "set" and Value is a *Function.
	Property struct {
		Key        string
		Value      Node
		Accessor   string
		NumericKey bool
	}
	Object struct {
		Props []Property
	}
	// Array elements that are holes are represented as Atom{"undefined"}.
	Array struct {
		Elements []Node
	}
	Seq struct {
		Exprs []Node
	}
)

func (*Name) Kind() Kind         { return KindName }
func (*Num) Kind() Kind          { return KindNum }
func (*String) Kind() Kind       { return KindString }
func (*RegExp) Kind() Kind       { return KindRegExp }
func (*Atom) Kind() Kind         { return KindAtom }
func (*Toplevel) Kind() Kind     { return KindToplevel }
func (*Block) Kind() Kind        { return KindBlock }
func (*Stat) Kind() Kind         { return KindStat }
func (*Var) Kind() Kind          { return KindVar }
func (*Const) Kind() Kind        { return KindConst }
func (*If) Kind() Kind           { return KindIf }
func (*For) Kind() Kind          { return KindFor }
func (*ForIn) Kind() Kind        { return KindForIn }
func (*While) Kind() Kind        { return KindWhile }
func (*Do) Kind() Kind           { return KindDo }
func (*Switch) Kind() Kind       { return KindSwitch }
func (*Try) Kind() Kind          { return KindTry }
func (*Throw) Kind() Kind        { return KindThrow }
func (*Return) Kind() Kind       { return KindReturn }
func (*Break) Kind() Kind        { return KindBreak }
func (*Continue) Kind() Kind     { return KindContinue }
func (*Label) Kind() Kind        { return KindLabel }
func (*With) Kind() Kind         { return KindWith }
func (*Debugger) Kind() Kind     { return KindDebugger }
func (*Assign) Kind() Kind       { return KindAssign }
func (*Binary) Kind() Kind       { return KindBinary }
func (*UnaryPrefix) Kind() Kind  { return KindUnaryPrefix }
func (*UnaryPostfix) Kind() Kind { return KindUnaryPostfix }
func (*Conditional) Kind() Kind  { return KindConditional }
func (*Dot) Kind() Kind          { return KindDot }
func (*Sub) Kind() Kind          { return KindSub }
func (*Call) Kind() Kind         { return KindCall }
func (*New) Kind() Kind          { return KindNew }
func (*Function) Kind() Kind     { return KindFunction }
func (*Defun) Kind() Kind        { return KindDefun }
func (*Object) Kind() Kind       { return KindObject }
func (*Array) Kind() Kind        { return KindArray }
func (*Seq) Kind() Kind          { return KindSeq }

// IsEmptyStatement reports whether n is nil or a block without statements.
func IsEmptyStatement(n Node) bool {
	if n == nil {
		return true
	}
	b, ok := n.(*Block)
	return ok && len(b.Body) == 0
}

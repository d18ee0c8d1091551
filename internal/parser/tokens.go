package parser

import (
	"bytes"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/whit3rabbit/jsmixer/internal/token"
)

// Nodes reported as a single token although tree-sitter gives them
// children.
var literalNodes = map[string]token.TokenType{
	"string": token.String,
	"regex":  token.RegExp,
	"number": token.Num,
}

// emitTokens reports the leaves of root in source order. Comments and
// inserted semicolons are not tokens.
func emitTokens(src []byte, root *sitter.Node, fn func(token.Token)) {
	prevEnd := 0
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if isComment(n) || n.IsMissing() {
			return
		}
		typ, literal := literalNodes[n.Type()]
		if !literal && n.ChildCount() > 0 {
			for i := 0; i < int(n.ChildCount()); i++ {
				visit(n.Child(i))
			}
			return
		}
		start, end := int(n.StartByte()), int(n.EndByte())
		if start == end {
			return
		}
		text := string(src[start:end])
		if !literal {
			typ = token.Classify(text)
		}
		line, col := position(src, n.StartByte(), n.StartPoint())
		fn(token.Token{
			Type:  typ,
			Value: text,
			Line:  line,
			Col:   col,
			Pos:   start,
			End:   end,
			NLB:   bytes.ContainsAny(src[prevEnd:start], "\n\r\u2028\u2029"),
		})
		prevEnd = end
	}
	visit(root)

	lineStart := bytes.LastIndexByte(src, '\n') + 1
	fn(token.Token{
		Type: token.EOF,
		Line: bytes.Count(src, []byte{'\n'}) + 1,
		Col:  utf8.RuneCount(src[lineStart:]) + 1,
		Pos:  len(src),
		End:  len(src),
		NLB:  bytes.ContainsAny(src[prevEnd:], "\n\r\u2028\u2029"),
	})
}

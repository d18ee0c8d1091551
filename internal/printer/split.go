package printer

import (
	"fmt"
	"strings"

	"github.com/whit3rabbit/jsmixer/internal/parser"
	"github.com/whit3rabbit/jsmixer/internal/token"
)

// SplitLines breaks compact code into lines of roughly maxLen bytes. Code
// is re-parsed and the token stream of the parse decides the breaks: they
// are only placed before a keyword, atom, name or punctuation token that
// does not directly follow a keyword, so no semicolon is ever inserted by
// the break.
func SplitLines(code string, maxLen int) (string, error) {
	splits := []int{0}
	last := 0
	var prev token.Token
	havePrev := false

	onToken := func(tok token.Token) {
		if !(havePrev && prev.Type == token.Keyword) && tok.Pos-last > maxLen {
			switch tok.Type {
			case token.Keyword, token.Atom, token.Name, token.Punc:
				last = tok.Pos
				splits = append(splits, last)
			}
		}
		prev, havePrev = tok, true
	}
	if _, err := parser.Parse(code, parser.Options{OnToken: onToken}); err != nil {
		return "", fmt.Errorf("splitting generated code: %w", err)
	}

	var b strings.Builder
	for i, pos := range splits {
		end := len(code)
		if i+1 < len(splits) {
			end = splits[i+1]
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(code[pos:end])
	}
	return b.String(), nil
}

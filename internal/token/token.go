// Package token classifies JavaScript tokens and decodes their literal
// text. The parser reports the token stream of a parsed program in these
// terms.
package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType classifies a token.
type TokenType uint8

const (
	EOF TokenType = iota
	Name
	Keyword
	Atom
	Num
	String
	RegExp
	Operator
	Punc
)

var tokenTypeNames = [...]string{
	EOF:      "eof",
	Name:     "name",
	Keyword:  "keyword",
	Atom:     "atom",
	Num:      "num",
	String:   "string",
	RegExp:   "regexp",
	Operator: "operator",
	Punc:     "punc",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("token(%d)", uint8(t))
}

// Token is a single lexical token. Value holds the source text of the
// token.
type Token struct {
	Type  TokenType
	Value string

	// 1-based line and column, 0-based byte offsets.
	Line int
	Col  int
	Pos  int
	End  int

	// NLB is set when at least one line terminator precedes the token.
	NLB bool
}

// Is reports whether the token has the given type and value.
func (t Token) Is(typ TokenType, value string) bool {
	return t.Type == typ && t.Value == value
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

// SyntaxError is returned for malformed input. Line and Col are 1-based.
type SyntaxError struct {
	Message string
	Line    int
	Col     int
	Pos     int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line: %d, col: %d, pos: %d)", e.Message, e.Line, e.Col, e.Pos)
}

var keywords = toSet(
	"break", "case", "catch", "const", "continue", "debugger", "default",
	"delete", "do", "else", "finally", "for", "function", "if", "in",
	"instanceof", "new", "return", "switch", "throw", "try", "typeof", "var",
	"void", "while", "with",
)

var atoms = toSet("false", "null", "true")

// Future reserved words of ES3.
var reservedWords = toSet(
	"abstract", "boolean", "byte", "char", "class", "double", "enum",
	"export", "extends", "final", "float", "goto", "implements", "import",
	"int", "interface", "long", "native", "package", "private", "protected",
	"public", "short", "static", "super", "synchronized", "throws",
	"transient", "volatile",
)

// Keywords that are lexed as operators.
var operatorWords = toSet("in", "instanceof", "typeof", "new", "void", "delete")

var operators = toSet(
	"in", "instanceof", "typeof", "new", "void", "delete",
	"++", "--", "+", "-", "!", "~", "&", "|", "^", "*", "/", "%",
	">>", "<<", ">>>", "<", ">", "<=", ">=", "==", "===", "!=", "!==",
	"?", "=", "+=", "-=", "/=", "*=", "%=", ">>=", "<<=", ">>>=", "|=",
	"^=", "&=", "&&", "||",
)

const puncChars = "[]{}(),;:."

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsKeyword reports whether word is a keyword, including the atoms.
func IsKeyword(word string) bool { return keywords[word] || atoms[word] }

// IsReservedWord reports whether word is an ES3 future reserved word.
func IsReservedWord(word string) bool { return reservedWords[word] }

// IsOperator reports whether op is a known operator.
func IsOperator(op string) bool { return operators[op] }

// IsIdentifierStart reports whether r may begin an identifier.
func IsIdentifierStart(r rune) bool {
	return r == '$' || r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

// IsIdentifierChar reports whether r may continue an identifier.
func IsIdentifierChar(r rune) bool {
	if IsIdentifierStart(r) || ('0' <= r && r <= '9') {
		return true
	}
	if r < utf8.RuneSelf {
		return false
	}
	return unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

// IsIdentifierName reports whether name is lexically an identifier,
// ignoring keywords.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !IsIdentifierStart(r) {
				return false
			}
		} else if !IsIdentifierChar(r) {
			return false
		}
	}
	return true
}

// IsIdentifier reports whether name can be written as a bare identifier:
// it has identifier syntax and is neither a keyword, an atom nor a
// reserved word.
func IsIdentifier(name string) bool {
	return IsIdentifierName(name) && !IsKeyword(name) && !IsReservedWord(name)
}

// Classify returns the type of a word or punctuator as it appears in
// source. Words spelled with escapes are always names.
func Classify(text string) TokenType {
	switch {
	case text == "":
		return EOF
	case strings.ContainsRune(text, '\\'):
		return Name
	case IsIdentifierName(text):
		switch {
		case operatorWords[text]:
			return Operator
		case atoms[text]:
			return Atom
		case keywords[text]:
			return Keyword
		}
		return Name
	case len(text) == 1 && strings.Contains(puncChars, text):
		return Punc
	}
	return Operator
}

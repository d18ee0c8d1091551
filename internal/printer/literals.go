package printer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/whit3rabbit/jsmixer/internal/ast"
)

var (
	leadingZeroFraction = regexp.MustCompile(`^0\.(0+)(.*)$`)
	trailingZeros       = regexp.MustCompile(`^(-?\d+?)(0+)$`)
	scriptClose         = regexp.MustCompile(`(?i)<(/script[>/\t\n\f\r ])`)
)

// makeNum returns the shortest of the decimal, hexadecimal and exponent
// spellings of v.
func makeNum(v float64) string {
	str := ast.FormatNumber(v)
	candidates := []string{str}
	if strings.HasPrefix(str, "0.") {
		candidates = append(candidates, str[1:])
	}
	if !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Floor(v) {
		switch {
		case v >= 0 && v < 1<<63:
			candidates = append(candidates, "0x"+strconv.FormatUint(uint64(v), 16))
		case v < 0 && v > -(1<<63):
			candidates = append(candidates, "-0x"+strconv.FormatUint(uint64(-v), 16))
		}
		if m := trailingZeros.FindStringSubmatch(str); m != nil {
			candidates = append(candidates, m[1]+"e"+strconv.Itoa(len(m[2])))
		}
	} else if m := leadingZeroFraction.FindStringSubmatch(str); m != nil {
		candidates = append(candidates,
			m[2]+"e-"+strconv.Itoa(len(m[1])+len(m[2])),
			str[strings.Index(str, "."):])
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return strings.Replace(best, "e+", "e", 1)
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// isCanonicalNumber reports whether s is the JavaScript spelling of a
// number, so that printing it unquoted names the same property.
func isCanonicalNumber(s string) bool {
	f, ok := parseNumber(s)
	return ok && !math.IsNaN(f) && ast.FormatNumber(f) == s
}

func (p *printer) encodeString(s string) string {
	out := makeString(s, p.opts.ASCIIOnly)
	if p.opts.InlineScript {
		out = scriptClose.ReplaceAllString(out, `<\${1}`)
	}
	return out
}

// decodeSurrogate reads a lone surrogate stored as a generalized 3-byte
// sequence.
func decodeSurrogate(s string) (int, bool) {
	if len(s) < 3 || s[0] != 0xED || s[1] < 0xA0 || s[1] > 0xBF || s[2] < 0x80 || s[2] > 0xBF {
		return 0, false
	}
	return int(s[0]&0x0F)<<12 | int(s[1]&0x3F)<<6 | int(s[2]&0x3F), true
}

// makeString quotes s with whichever quote character needs fewer escapes,
// preferring double quotes.
func makeString(s string, asciiOnly bool) string {
	var b strings.Builder
	dq, sq := 0, 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if u, ok := decodeSurrogate(s[i:]); ok {
				fmt.Fprintf(&b, `\u%04x`, u)
				i += 3
				continue
			}
			b.WriteString(`\ufffd`)
			i++
			continue
		}
		i += size
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		case 0:
			if i < len(s) && s[i] >= '0' && s[i] <= '9' {
				b.WriteString(`\x00`)
			} else {
				b.WriteString(`\0`)
			}
		case '"':
			dq++
			b.WriteByte('"')
		case '\'':
			sq++
			b.WriteByte('\'')
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}

	str := b.String()
	if asciiOnly {
		str = toASCII(str)
	}
	if dq > sq {
		return "'" + strings.ReplaceAll(str, "'", `\'`) + "'"
	}
	return `"` + strings.ReplaceAll(str, `"`, `\"`) + `"`
}

// toASCII escapes every non-ASCII character of s as \uXXXX, using
// surrogate pairs above the basic plane.
func toASCII(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r >= utf8.RuneSelf }) < 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			if u, ok := decodeSurrogate(s[i:]); ok {
				fmt.Fprintf(&b, `\u%04x`, u)
				i += 3
				continue
			}
			b.WriteString(`\ufffd`)
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(&b, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
		i += size
	}
	return b.String()
}

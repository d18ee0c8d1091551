package token

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Literal decoding errors. The parser reports their text with the
// position of the offending literal.
var (
	ErrUnterminatedString = errors.New("Unterminated string constant")
	ErrInvalidHexEscape   = errors.New("Invalid hex-character pattern in string")
	ErrInvalidIdentifier  = errors.New("Invalid identifier escape")
)

// DecodeString returns the value of a quoted string literal.
func DecodeString(raw string) (string, error) {
	if len(raw) < 2 || (raw[0] != '"' && raw[0] != '\'') || raw[len(raw)-1] != raw[0] {
		return "", ErrUnterminatedString
	}
	d := decoder{src: raw[1 : len(raw)-1]}
	var sb strings.Builder
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		if c != '\\' {
			sb.WriteByte(c)
			d.pos++
			continue
		}
		d.pos++
		if err := d.escape(&sb); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// DecodeIdentifier resolves \uXXXX escapes in an identifier.
func DecodeIdentifier(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	d := decoder{src: raw}
	var sb strings.Builder
	for d.pos < len(d.src) {
		if d.src[d.pos] != '\\' {
			sb.WriteByte(d.src[d.pos])
			d.pos++
			continue
		}
		if d.pos+1 >= len(d.src) || d.src[d.pos+1] != 'u' {
			return "", ErrInvalidIdentifier
		}
		d.pos += 2
		v, err := d.hex(4)
		if err != nil {
			return "", ErrInvalidIdentifier
		}
		if (sb.Len() == 0 && !IsIdentifierStart(rune(v))) || !IsIdentifierChar(rune(v)) {
			return "", ErrInvalidIdentifier
		}
		sb.WriteRune(rune(v))
	}
	return sb.String(), nil
}

// ParseNumber returns the value of a numeric literal: decimal, hex or
// legacy octal.
func ParseNumber(raw string) (float64, error) {
	invalid := errors.New("Invalid syntax: " + raw)
	if len(raw) > 1 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		digits := raw[2:]
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return 0, invalid
			}
		}
		if digits == "" {
			return 0, errors.New("Invalid hex number")
		}
		return parseRadix(digits, 16), nil
	}
	if raw == "" || strings.Trim(raw, "0123456789.eE+-") != "" {
		return 0, invalid
	}
	if isLegacyOctal(raw) {
		return parseRadix(raw[1:], 8), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !math.IsInf(v, 0) {
		return 0, invalid
	}
	return v, nil
}

func isLegacyOctal(text string) bool {
	if len(text) < 2 || text[0] != '0' {
		return false
	}
	for _, c := range text[1:] {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// parseRadix accumulates in floating point so that literals wider than 64
// bits keep their (rounded) value.
func parseRadix(digits string, radix int) float64 {
	v := 0.0
	for _, c := range digits {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		}
		v = v*float64(radix) + float64(d)
	}
	return v
}

// AppendCodeUnit writes a UTF-16 code unit. Lone surrogates, which UTF-8
// cannot represent, are written in their generalized 3-byte form so the
// printer can escape them again.
func AppendCodeUnit(sb *strings.Builder, v int) {
	if v >= 0xD800 && v <= 0xDFFF {
		sb.WriteByte(byte(0xE0 | v>>12))
		sb.WriteByte(byte(0x80 | (v>>6)&0x3F))
		sb.WriteByte(byte(0x80 | v&0x3F))
		return
	}
	sb.WriteRune(rune(v))
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) peek(offset int) byte {
	if d.pos+offset >= len(d.src) {
		return 0
	}
	return d.src[d.pos+offset]
}

func (d *decoder) hex(n int) (int, error) {
	if d.pos+n > len(d.src) {
		return 0, ErrInvalidHexEscape
	}
	v := 0
	for i := 0; i < n; i++ {
		c := d.src[d.pos+i]
		if !isHexDigit(c) {
			return 0, ErrInvalidHexEscape
		}
		v = v*16 + int(parseRadix(string(c), 16))
	}
	d.pos += n
	return v, nil
}

// escape decodes one escape sequence; the backslash has been consumed.
func (d *decoder) escape(sb *strings.Builder) error {
	if d.pos >= len(d.src) {
		return ErrUnterminatedString
	}
	c := d.src[d.pos]
	d.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'b':
		sb.WriteByte('\b')
	case 'v':
		sb.WriteByte('\v')
	case 'f':
		sb.WriteByte('\f')
	case '\r':
		// line continuation, possibly CRLF
		if d.peek(0) == '\n' {
			d.pos++
		}
	case '\n':
	case 'x':
		v, err := d.hex(2)
		if err != nil {
			return err
		}
		sb.WriteRune(rune(v))
	case 'u':
		v, err := d.hex(4)
		if err != nil {
			return err
		}
		if v >= 0xD800 && v <= 0xDBFF && d.peek(0) == '\\' && d.peek(1) == 'u' {
			save := d.pos
			d.pos += 2
			lo, err := d.hex(4)
			if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
				sb.WriteRune(rune((v-0xD800)<<10 + (lo - 0xDC00) + 0x10000))
				return nil
			}
			d.pos = save
		}
		AppendCodeUnit(sb, v)
	default:
		if c >= '0' && c <= '7' {
			v := int(c - '0')
			limit := 2
			if c > '3' {
				limit = 1
			}
			for i := 0; i < limit; i++ {
				o := d.peek(0)
				if o < '0' || o > '7' {
					break
				}
				d.pos++
				v = v*8 + int(o-'0')
			}
			sb.WriteRune(rune(v))
			return nil
		}
		// line continuation after U+2028 or U+2029
		if rest := d.src[d.pos-1:]; strings.HasPrefix(rest, "\u2028") || strings.HasPrefix(rest, "\u2029") {
			d.pos += 2
			return nil
		}
		sb.WriteByte(c)
	}
	return nil
}

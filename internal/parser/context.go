package parser

import (
	"strconv"
	"strings"
)

// DefaultContextRadius is the number of lines shown on each side of a
// syntax error.
const DefaultContextRadius = 10

// ContextWindow renders the lines of src around a 1-based line number.
// Each line is prefixed by its number; the error line is marked with "->".
func ContextWindow(src string, line, radius int) string {
	lines := strings.Split(src, "\n")
	from := line - 1 - radius
	if from < 0 {
		from = 0
	}
	to := line + radius
	if to > len(lines) {
		to = len(lines)
	}

	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		k := i + 1
		marker := "\t"
		if k == line {
			marker = "->\t"
		}
		out = append(out, marker+strconv.Itoa(k)+":\t"+strings.TrimRight(lines[i], "\r"))
	}
	return strings.Join(out, "\n")
}

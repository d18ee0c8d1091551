package walker

import "github.com/whit3rabbit/jsmixer/internal/ast"

// Stack tracks the nodes currently being walked, outermost first.
type Stack struct {
	nodes []ast.Node
}

func (s *Stack) push(n ast.Node) { s.nodes = append(s.nodes, n) }

func (s *Stack) pop() {
	s.nodes[len(s.nodes)-1] = nil
	s.nodes = s.nodes[:len(s.nodes)-1]
}

// Len returns the depth of the stack.
func (s *Stack) Len() int { return len(s.nodes) }

// Current returns the innermost node, or nil.
func (s *Stack) Current() ast.Node { return s.Parent(0) }

// Parent returns the n-th ancestor of the current node (0 is the current
// node itself), or nil.
func (s *Stack) Parent(n int) ast.Node {
	i := len(s.nodes) - 1 - n
	if i < 0 || i >= len(s.nodes) {
		return nil
	}
	return s.nodes[i]
}

// Package walker implements a generic AST traversal with per-kind default
// handlers, overridable per-kind handlers and an ancestor stack.
package walker

import (
	"fmt"

	"github.com/whit3rabbit/jsmixer/internal/ast"
)

// Handler renders a node of one kind. Walk passes the walker it was
// invoked on, so recursion inside a handler sees the same overrides.
type Handler[R any] func(w *Walker[R], n ast.Node) R

// Override may handle a node; returning false falls back to the default
// handler.
type Override[R any] func(w *Walker[R], n ast.Node) (R, bool)

// Table holds one default handler per kind.
type Table[R any] [ast.KindCount]Handler[R]

// Overrides maps kinds to override handlers.
type Overrides[R any] map[ast.Kind]Override[R]

// UnknownKindError is raised when no default handler exists for a kind.
type UnknownKindError struct {
	Kind ast.Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no handler for node kind %s", e.Kind)
}

// Walker dispatches nodes to handlers. A Walker is not safe for concurrent
// use; each traversal owns its own.
type Walker[R any] struct {
	defaults  *Table[R]
	overrides Overrides[R]
	stack     *Stack
}

// New returns a walker over the given default table.
func New[R any](defaults *Table[R]) *Walker[R] {
	return &Walker[R]{defaults: defaults, stack: &Stack{}}
}

// Walk dispatches n to the active override for its kind, if any, and to
// the default handler otherwise. A nil node yields the zero value.
func (w *Walker[R]) Walk(n ast.Node) R {
	var zero R
	if n == nil {
		return zero
	}
	w.stack.push(n)
	defer w.stack.pop()
	if o, ok := w.overrides[n.Kind()]; ok {
		if r, handled := o(w, n); handled {
			return r
		}
	}
	return w.dflt(n)
}

// Dive runs the default handler for n, bypassing overrides. The node is
// not pushed again; Dive is meant to be called from an override for the
// node that is already on top of the stack.
func (w *Walker[R]) Dive(n ast.Node) R {
	var zero R
	if n == nil {
		return zero
	}
	return w.dflt(n)
}

func (w *Walker[R]) dflt(n ast.Node) R {
	k := n.Kind()
	if !k.Valid() || w.defaults[k] == nil {
		panic(&UnknownKindError{Kind: k})
	}
	return w.defaults[k](w, n)
}

// WithOverrides runs cont with a walker whose overrides are the current
// ones merged with o. The receiver is left unchanged, so the previous set
// is back in effect once cont returns. Both walkers share the ancestor
// stack.
func (w *Walker[R]) WithOverrides(o Overrides[R], cont func(*Walker[R]) R) R {
	merged := make(Overrides[R], len(w.overrides)+len(o))
	for k, h := range w.overrides {
		merged[k] = h
	}
	for k, h := range o {
		merged[k] = h
	}
	return cont(&Walker[R]{defaults: w.defaults, overrides: merged, stack: w.stack})
}

// Stack returns the ancestor stack of the current traversal.
func (w *Walker[R]) Stack() *Stack { return w.stack }

// WalkList walks every node of a list.
func (w *Walker[R]) WalkList(nodes []ast.Node) []R {
	if nodes == nil {
		return nil
	}
	out := make([]R, len(nodes))
	for i, n := range nodes {
		out[i] = w.Walk(n)
	}
	return out
}

// Recover converts an *UnknownKindError panic into an error. It must be
// deferred directly:
//
//	defer walker.Recover(&err)
func Recover(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(*UnknownKindError); ok {
			*err = e
			return
		}
		panic(r)
	}
}

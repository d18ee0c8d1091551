// Package scrambler tracks lexical scopes and generates short replacement
// names that cannot collide with anything visible from a scope.
package scrambler

import (
	"errors"
	"fmt"

	"github.com/whit3rabbit/jsmixer/internal/token"
)

const (
	// Alphabet of generated names. Every character is a valid identifier
	// start, so every candidate is at least lexically an identifier.
	nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ$_"

	// Limits
	maxCandidateRejections = 1 << 20
)

// ErrNameExhausted is returned when the generator keeps rejecting
// candidates; it indicates a bug rather than a real exhaustion.
var ErrNameExhausted = errors.New("name generator exhausted")

// Base54 returns the n-th generated name: a bijective base-54 numeral over
// the name alphabet, so 0 is "a", 53 is "_" and 54 is "aa".
func Base54(n int) string {
	var buf []byte
	for n >= 0 {
		buf = append(buf, nameAlphabet[n%len(nameAlphabet)])
		n = n/len(nameAlphabet) - 1
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// IsIdentifier reports whether name may be used as a generated name: it is
// a legal identifier and not a keyword or a reserved name.
func IsIdentifier(name string) bool {
	return token.IsIdentifier(name) && !isReserved(name)
}

// Scope is one level of lexical nesting.
type Scope struct {
	// Names declared in this scope.
	Names map[string]DeclType
	// Mangled maps original names to assigned names; RevMangled is the
	// inverse.
	Mangled    map[string]string
	RevMangled map[string]string
	// Refs holds every name referenced from this scope or a descendant,
	// mapped to the scope declaring it, or nil when it is undeclared.
	Refs map[string]*Scope

	UsesWith bool
	UsesEval bool

	Parent   *Scope
	Children []*Scope
	Level    int

	counter int
}

// NewScope creates a scope nested in parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		Names:      make(map[string]DeclType),
		Mangled:    make(map[string]string),
		RevMangled: make(map[string]string),
		Refs:       make(map[string]*Scope),
		Parent:     parent,
	}
	if parent != nil {
		s.Level = parent.Level + 1
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Define declares name in this scope.
func (s *Scope) Define(name string, typ DeclType) {
	if name == "" {
		return
	}
	if _, ok := s.Names[name]; !ok {
		s.Names[name] = typ
	}
}

// Has returns the nearest scope in the chain declaring name, or nil.
func (s *Scope) Has(name string) *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if _, ok := sc.Names[name]; ok {
			return sc
		}
	}
	return nil
}

// HasMangled returns the nearest scope in the chain that assigned the
// generated name m, or nil.
func (s *Scope) HasMangled(m string) *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if _, ok := sc.RevMangled[m]; ok {
			return sc
		}
	}
	return nil
}

// References reports whether name is referenced from this scope or a
// descendant.
func (s *Scope) References(name string) bool {
	_, ok := s.Refs[name]
	return ok
}

// Dynamic reports whether with or eval code can reach the names visible
// from this scope. The flags are set on every enclosing scope of the
// construct, so this is the scope's own state.
func (s *Scope) Dynamic() bool {
	return s.UsesWith || s.UsesEval
}

// NextMangled returns the next acceptable candidate name and advances the
// counter past it.
func (s *Scope) NextMangled() (string, error) {
	return s.NextMangledExcept(nil)
}

// NextMangledExcept is NextMangled with an extra rejection predicate.
func (s *Scope) NextMangledExcept(skip func(string) bool) (string, error) {
	for rejected := 0; rejected < maxCandidateRejections; rejected++ {
		m := Base54(s.counter)
		s.counter++
		if !s.acceptable(m) || (skip != nil && skip(m)) {
			continue
		}
		return m, nil
	}
	return "", fmt.Errorf("%w: scope level %d rejected %d candidates", ErrNameExhausted, s.Level, maxCandidateRejections)
}

func (s *Scope) acceptable(m string) bool {
	// A scope in the chain already maps another name to m and that name is
	// still referenced from here.
	if prior := s.HasMangled(m); prior != nil {
		if ref, ok := s.Refs[prior.RevMangled[m]]; ok && ref == prior {
			return false
		}
	}
	// m is declared, unrenamed, by an ancestor and referenced from here.
	if prior := s.Has(m); prior != nil && prior != s {
		if ref, ok := s.Refs[m]; ok && ref == prior {
			if _, renamed := prior.Mangled[m]; !renamed {
				return false
			}
		}
	}
	// m is an undeclared (global) name used from here.
	if ref, ok := s.Refs[m]; ok && ref == nil {
		return false
	}
	return IsIdentifier(m)
}

// SetMangle records that name is renamed to m in this scope.
func (s *Scope) SetMangle(name, m string) string {
	s.RevMangled[m] = name
	s.Mangled[name] = m
	return m
}

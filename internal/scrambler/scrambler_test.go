package scrambler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/jsmixer/internal/parser"
)

func build(t *testing.T, src string) *Scope {
	t.Helper()
	tree, err := parser.Parse(src, parser.Options{})
	require.NoError(t, err)
	return Build(tree)
}

func TestBase54(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "a"},
		{25, "z"},
		{26, "A"},
		{51, "Z"},
		{52, "$"},
		{53, "_"},
		{54, "aa"},
		{55, "ab"},
		{108, "ba"},
		{2969, "__"},
		{2970, "aaa"},
	}
	for _, tt := range tests {
		if got := Base54(tt.n); got != tt.want {
			t.Errorf("Base54(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, name := range []string{"a", "ab", "$", "_x", "doo"} {
		if !IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"do", "if", "in", "true", "class", "let", "this", "eval", "arguments", "undefined", "NaN", "Infinity", "1a"} {
		if IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = true, want false", name)
		}
	}
}

func TestNextMangledSkipsKeywords(t *testing.T) {
	s := NewScope(nil)
	for _, want := range []string{"a", "b", "c"} {
		got, err := s.NextMangled()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, s.counter)

	// "do" is candidate 230.
	s.counter = 230
	got, err := s.NextMangled()
	require.NoError(t, err)
	assert.Equal(t, "dp", got)
	assert.Equal(t, 232, s.counter)
}

func TestNextMangledExcept(t *testing.T) {
	s := NewScope(nil)
	taken := map[string]bool{"a": true, "c": true}
	var got []string
	for i := 0; i < 3; i++ {
		m, err := s.NextMangledExcept(func(m string) bool { return taken[m] })
		require.NoError(t, err)
		got = append(got, m)
	}
	assert.Equal(t, []string{"b", "d", "e"}, got)

	_, err := NewScope(nil).NextMangledExcept(func(string) bool { return true })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameExhausted))
}

// assign gives name a fresh short name in s.
func assign(t *testing.T, s *Scope, name string) string {
	t.Helper()
	m, err := s.NextMangled()
	require.NoError(t, err)
	return s.SetMangle(name, m)
}

func TestAcceptableAvoidsGlobals(t *testing.T) {
	root := build(t, "function f(x) { return a + x }")
	inner := root.Children[0]

	assert.Equal(t, "b", assign(t, inner, "x"), "a is a global referenced from the function")
}

func TestAcceptableAvoidsUnrenamedOuterNames(t *testing.T) {
	root := build(t, "var a; function f(x) { return a + x }")
	inner := root.Children[0]

	assert.Equal(t, "b", assign(t, inner, "x"))
}

func TestAcceptableAvoidsOuterAssignments(t *testing.T) {
	root := build(t, "var _long; function f(x) { return _long + x }")
	inner := root.Children[0]

	assert.Equal(t, "a", assign(t, root, "_long"))
	assert.Equal(t, "b", assign(t, inner, "x"), "a already stands for _long here")

	// Without the reference the inner scope may shadow.
	root = build(t, "var _long; function f(x) { return x }")
	assign(t, root, "_long")
	assert.Equal(t, "a", assign(t, root.Children[0], "x"))
}

func TestSetMangle(t *testing.T) {
	root := build(t, "var v; function f() {}")
	inner := root.Children[0]

	assert.Equal(t, "a", root.SetMangle("v", "a"))
	assert.Equal(t, "a", root.Mangled["v"])
	assert.Equal(t, "v", root.RevMangled["a"])

	assert.Same(t, root, inner.HasMangled("a"))
	assert.Nil(t, inner.HasMangled("b"))
	assert.Empty(t, inner.Mangled)
}

func TestBuildDeclarations(t *testing.T) {
	root := build(t, `
var v; const c = 1;
function d(p) { try {} catch (e) {} }
(function l(q) {})`)

	assert.Equal(t, map[string]DeclType{"v": DeclVar, "c": DeclConst, "d": DeclDefun}, root.Names)
	require.Len(t, root.Children, 2)

	d, l := root.Children[0], root.Children[1]
	assert.Equal(t, map[string]DeclType{"p": DeclArgument, "e": DeclCatch}, d.Names)
	assert.Equal(t, map[string]DeclType{"l": DeclLambda, "q": DeclArgument}, l.Names)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, 1, d.Level)
	assert.Same(t, root, l.Parent)

	assert.Same(t, d, d.Has("p"))
	assert.Same(t, root, d.Has("v"))
	assert.Nil(t, root.Has("p"))
}

func TestBuildResolvesHoistedReferences(t *testing.T) {
	root := build(t, "f(); function f() { return h } var h; g")
	inner := root.Children[0]

	assert.Same(t, root, root.Refs["f"])
	assert.Same(t, root, inner.Refs["h"])
	assert.Same(t, root, root.Refs["h"])

	ref, ok := root.Refs["g"]
	assert.True(t, ok)
	assert.Nil(t, ref, "globals resolve to nil")

	assert.True(t, inner.References("h"))
	assert.False(t, inner.References("g"))
}

func TestBuildWithAndEval(t *testing.T) {
	root := build(t, "function f() { with (o) {} } function g() {}")
	f, g := root.Children[0], root.Children[1]
	assert.True(t, root.UsesWith)
	assert.True(t, f.UsesWith)
	assert.False(t, g.UsesWith)
	assert.True(t, root.Dynamic())
	assert.True(t, f.Dynamic())
	assert.False(t, g.Dynamic(), "a sibling's with cannot see g's names")

	root = build(t, "function f() { eval('x') } function g() {}")
	assert.True(t, root.UsesEval)
	assert.True(t, root.Children[0].UsesEval)
	assert.False(t, root.Children[1].UsesEval)
	assert.True(t, root.Children[0].Dynamic())
	assert.False(t, root.Children[1].Dynamic())

	root = build(t, "function f() {}")
	assert.False(t, root.Children[0].Dynamic())
}

func TestScopeWalk(t *testing.T) {
	root := build(t, "function a() { function b() {} } function c() {}")
	var levels []int
	root.Walk(func(s *Scope) { levels = append(levels, s.Level) })
	assert.Equal(t, []int{0, 1, 2, 1}, levels)
}

func TestDefineKeepsFirstDeclaration(t *testing.T) {
	s := NewScope(nil)
	s.Define("x", DeclDefun)
	s.Define("x", DeclVar)
	s.Define("", DeclVar)
	assert.Equal(t, map[string]DeclType{"x": DeclDefun}, s.Names)
}

package obfuscator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/jsmixer/internal/analyzer"
	"github.com/whit3rabbit/jsmixer/internal/config"
	"github.com/whit3rabbit/jsmixer/internal/parser"
	"github.com/whit3rabbit/jsmixer/internal/printer"
)

func init() {
	config.Testing = true
}

func batchOptions(prior map[string]string) Options {
	return Options{
		Level:         analyzer.LevelAll,
		Prior:         prior,
		JoinSeparator: ";\n",
		Output:        printer.DefaultOptions(),
	}
}

func TestRunBatchSharesNamesAcrossFragments(t *testing.T) {
	fragments := map[string]string{
		"f1": "var _foo = 1;\n_foo = _foo + 2;",
		"f2": "function _bar(x) {\n  return _foo(x);\n}",
	}
	groups := []Group{{Name: "app", Keys: []string{"f1", "f2"}}}

	res, err := RunBatch(fragments, groups, batchOptions(nil))
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	assert.Equal(t, "var a=1;a=a+2;\nfunction b(x){return a(x)}", res.Outputs["app"])
	assert.Equal(t, map[string]string{"_foo": "a", "_bar": "b"}, res.IdentifierMap)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, "_foo", res.Analysis.Eligible[0].ID)
	assert.Equal(t, 4, res.Analysis.Eligible[0].Count)
}

func TestRunBatchDeterministic(t *testing.T) {
	fragments := map[string]string{
		"a": "var _one = 1, _two = 2; _two(_one);",
		"b": "var _three = { _one: _two };",
		"c": "function f(){ return _three._one; }",
	}
	groups := []Group{{Name: "g", Keys: []string{"c", "a", "b"}}}

	first, err := RunBatch(fragments, groups, batchOptions(nil))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := RunBatch(fragments, groups, batchOptions(nil))
		require.NoError(t, err)
		assert.Equal(t, first.Outputs, again.Outputs)
		assert.Equal(t, first.IdentifierMap, again.IdentifierMap)
	}
}

func TestRunBatchReusesPriorNames(t *testing.T) {
	fragments := map[string]string{"f": "var _foo=1,_bar=2;_foo(_foo,_foo,_foo,_bar);"}
	groups := []Group{{Name: "g", Keys: []string{"f"}}}

	res, err := RunBatch(fragments, groups, batchOptions(map[string]string{"_foo": "a"}))
	require.NoError(t, err)
	assert.Equal(t, "var a=1,b=2;a(a,a,a,b)", res.Outputs["g"])
	assert.Equal(t, map[string]string{"_foo": "a", "_bar": "b"}, res.IdentifierMap)
}

func TestRunBatchPriorNameShadowedByProtectedName(t *testing.T) {
	fragments := map[string]string{"f": "var x = _foo;"}
	groups := []Group{{Name: "g", Keys: []string{"f"}}}

	res, err := RunBatch(fragments, groups, batchOptions(map[string]string{"_foo": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "var x=a", res.Outputs["g"])
	assert.Equal(t, "a", res.IdentifierMap["_foo"])
}

func TestRunBatchCarriesAbsentIdentifiers(t *testing.T) {
	fragments := map[string]string{"f": "var _new = 1;"}
	groups := []Group{{Name: "g", Keys: []string{"f"}}}

	res, err := RunBatch(fragments, groups, batchOptions(map[string]string{"_old": "a"}))
	require.NoError(t, err)
	assert.Equal(t, "var b=1", res.Outputs["g"])
	assert.Equal(t, map[string]string{"_old": "a", "_new": "b"}, res.IdentifierMap)
}

func TestRunBatchPrunesEmptyFragments(t *testing.T) {
	fragments := map[string]string{
		"blank": "  \n",
		"iife":  "(function(){})();",
		"code":  "var z = 1;",
	}
	groups := []Group{
		{Name: "empty", Keys: []string{"blank", "iife"}},
		{Name: "full", Keys: []string{"blank", "code"}},
	}

	res, err := RunBatch(fragments, groups, batchOptions(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "iife"}, res.Pruned)
	assert.Equal(t, "", res.Outputs["empty"])
	assert.Equal(t, "var z=1", res.Outputs["full"])
	assert.Empty(t, res.Analysis.Eligible)
}

func TestRunBatchParseFailureIsIsolated(t *testing.T) {
	fragments := map[string]string{
		"bad":  "var = ;",
		"good": "var _ok = 1;",
	}
	groups := []Group{{Name: "g", Keys: []string{"bad", "good"}}}

	res, err := RunBatch(fragments, groups, batchOptions(nil))
	require.NoError(t, err)
	assert.Equal(t, "var a=1", res.Outputs["g"])

	require.Len(t, res.Failures, 1)
	f := res.Failures[0]
	assert.Equal(t, "bad", f.Key)
	assert.Equal(t, ParseFailure, f.Kind)
	assert.Contains(t, f.Error(), "fragment bad: PARSE ERROR:")
	assert.Contains(t, f.Error(), "AT LINE:1")
	assert.Contains(t, f.Context, "var = ;")

	var perr *parser.Error
	assert.True(t, errors.As(res.Err(), &perr))
}

func TestRunBatchLevelNone(t *testing.T) {
	fragments := map[string]string{"f": "var _foo = 1;"}
	groups := []Group{{Name: "g", Keys: []string{"f"}}}
	prior := map[string]string{"_keep": "k"}

	opts := batchOptions(prior)
	opts.Level = analyzer.LevelNone
	res, err := RunBatch(fragments, groups, opts)
	require.NoError(t, err)
	assert.Equal(t, "var _foo=1", res.Outputs["g"])
	assert.Nil(t, res.Analysis)
	assert.Equal(t, prior, res.IdentifierMap)
}

func TestRunBatchLevels(t *testing.T) {
	src := "var _a = 1, __b = 2, _$c = 3;"
	tests := []struct {
		level analyzer.Level
		want  string
	}{
		{analyzer.LevelPrivate, "var a=1,__b=2,_$c=3"},
		{analyzer.LevelProtected, "var a=1,b=2,_$c=3"},
		{analyzer.LevelAll, "var a=1,b=2,c=3"},
	}
	for _, tt := range tests {
		opts := batchOptions(nil)
		opts.Level = tt.level
		res, err := RunBatch(map[string]string{"f": src}, []Group{{Name: "g", Keys: []string{"f"}}}, opts)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Outputs["g"], "level %d", tt.level)
	}
}

func TestRunBatchJoinedSeparator(t *testing.T) {
	fragments := map[string]string{"one": "a()", "two": "b()"}
	groups := []Group{{Name: "g", Keys: []string{"one", "two"}}}

	opts := batchOptions(nil)
	opts.JoinSeparator = JoinSeparator(config.LineModeJoined)
	res, err := RunBatch(fragments, groups, opts)
	require.NoError(t, err)
	assert.Equal(t, "a();b()", res.Outputs["g"])
}

func TestRunBatchSharedFragment(t *testing.T) {
	fragments := map[string]string{"lib": "var _lib = 1;", "main": "_lib++;"}
	groups := []Group{
		{Name: "lib.js", Keys: []string{"lib"}},
		{Name: "all.js", Keys: []string{"lib", "main"}},
	}

	res, err := RunBatch(fragments, groups, batchOptions(nil))
	require.NoError(t, err)
	assert.Equal(t, "var a=1", res.Outputs["lib.js"])
	assert.Equal(t, "var a=1;\na++", res.Outputs["all.js"])
}

func TestRunBatchWarnsOnWith(t *testing.T) {
	fragments := map[string]string{"f": "with (o) { _x = 1; }"}
	res, err := RunBatch(fragments, []Group{{Name: "g", Keys: []string{"f"}}}, batchOptions(nil))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "scope at level 0 uses with; renamed names may not resolve there: _x", res.Warnings[0])
}

func TestRunBatchWarnsPerDynamicScope(t *testing.T) {
	fragments := map[string]string{
		"f": "var _top = 1; function _run(_code) { return eval(_code); } function _calm(_n) { return _n; }",
	}
	res, err := RunBatch(fragments, []Group{{Name: "g", Keys: []string{"f"}}}, batchOptions(nil))
	require.NoError(t, err)

	// eval flags _run and every enclosing scope; the body of _calm is not
	// reported.
	assert.Equal(t, []string{
		"scope at level 0 uses eval; renamed names may not resolve there: _calm, _run, _top",
		"scope at level 1 uses eval; renamed names may not resolve there: _code",
	}, res.Warnings)
}

func TestRunBatchWithoutDynamicScopes(t *testing.T) {
	fragments := map[string]string{"f": "function _f(_a) { return _a; }"}
	res, err := RunBatch(fragments, []Group{{Name: "g", Keys: []string{"f"}}}, batchOptions(nil))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestJoinSeparator(t *testing.T) {
	assert.Equal(t, ";\n", JoinSeparator(config.LineModeNewlines))
	assert.Equal(t, "", JoinSeparator(config.LineModeJoined))
}

func TestTerminate(t *testing.T) {
	assert.Equal(t, "", Terminate(""))
	assert.Equal(t, "a;", Terminate("a"))
	assert.Equal(t, "a;", Terminate("a;;;"))
}

func TestIsEmptyFragment(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"", true},
		{" \n\t", true},
		{";", true},
		{"(function(){})();", true},
		{"( function ( ) { } ) ( )", true},
		{"(function(){ x(); })();", false},
		{"x;", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmptyFragment(tt.src), "%q", tt.src)
	}
}

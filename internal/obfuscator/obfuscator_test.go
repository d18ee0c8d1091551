package obfuscator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/jsmixer/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func newTestContext(t *testing.T, dir string) *Context {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.Silent = true
	ctx, err := NewContext(cfg)
	require.NoError(t, err)
	require.NoError(t, ctx.Load())
	return ctx
}

func TestProcessCode(t *testing.T) {
	ctx := newTestContext(t, t.TempDir())
	out, err := ctx.ProcessCode("function _sum(_left, right) { return _left + right; }")
	require.NoError(t, err)
	assert.Equal(t, "function b(a,right){return a+right}", out)
	assert.Equal(t, map[string]string{"_left": "a", "_sum": "b"}, ctx.Prior)
}

func TestProcessCodeSyntaxError(t *testing.T) {
	ctx := newTestContext(t, t.TempDir())
	_, err := ctx.ProcessCode("var = ;")
	assert.ErrorContains(t, err, "PARSE ERROR")
}

func TestContextPersistsMapAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := newTestContext(t, dir)
	_, err := ctx.ProcessCode("var _first = 1;")
	require.NoError(t, err)
	require.NoError(t, ctx.Save())

	again := newTestContext(t, dir)
	assert.Equal(t, "a", again.Prior["_first"])
	out, err := again.ProcessCode("var _second = _first;")
	require.NoError(t, err)
	assert.Equal(t, "var b=a", out)
	assert.Equal(t, map[string]string{"_first": "a", "_second": "b"}, again.Prior)
}

func TestAbortOnErrorKeepsPriorMap(t *testing.T) {
	ctx := newTestContext(t, t.TempDir())
	ctx.Config.AbortOnError = true
	ctx.Prior = map[string]string{"_kept": "k"}

	_, err := ctx.Run(map[string]string{"bad": "if (", "ok": "var _x;"},
		[]Group{{Name: "g", Keys: []string{"bad", "ok"}}})
	assert.Error(t, err)
	assert.Equal(t, map[string]string{"_kept": "k"}, ctx.Prior)
}

func TestProcessGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "lib.js"), "var _shared = 1;\n")
	writeFile(t, filepath.Join(dir, "src", "a.js"), "_shared++;\n")
	writeFile(t, filepath.Join(dir, "src", "b.js"), "alert(_shared);\n")

	ctx := newTestContext(t, dir)
	ctx.Config.Groups = map[string][]string{
		"a.js": {"src/lib.js", "src/a.js"},
		"b.js": {"src/lib.js", "src/b.js"},
	}

	outputs, err := ctx.ProcessGroups()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.js": "var a=1;\na++",
		"b.js": "var a=1;\nalert(a)",
	}, outputs)
}

func TestProcessGroupsMissingFile(t *testing.T) {
	ctx := newTestContext(t, t.TempDir())
	ctx.Config.Groups = map[string][]string{"g": {"missing.js"}}
	_, err := ctx.ProcessGroups()
	assert.ErrorContains(t, err, "missing.js")
}

func TestWriteGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.js"), "var _v = 1;")
	ctx := newTestContext(t, dir)
	ctx.Config.Groups = map[string][]string{"bundle": {"x.js"}, "legacy.js": {"x.js"}}

	out := filepath.Join(dir, "out")
	written, err := ctx.WriteGroups(out)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "bundle.js"), filepath.Join(out, "legacy.js")}, written)
	assert.Equal(t, "var a=1;", readFile(t, written[0]))
	assert.Equal(t, "var a=1;", readFile(t, written[1]))
}

func TestProcessDirectory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "js")
	writeFile(t, filepath.Join(src, "main.js"), "var _app = {};\n_app._start = 1;\n")
	writeFile(t, filepath.Join(src, "lib", "util.js"), "_app._start++;\n")
	writeFile(t, filepath.Join(src, "lib", "vendor.min.js"), "var _skip = 1;")
	writeFile(t, filepath.Join(src, "empty.js"), "(function(){})();")
	writeFile(t, filepath.Join(src, "notes.txt"), "_not_code")
	writeFile(t, filepath.Join(src, "node_modules", "dep.js"), "var _dep = 1;")

	ctx := newTestContext(t, root)
	dst := filepath.Join(root, "out")
	written, err := ctx.ProcessDirectory(src, dst)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dst, "js_lib_util.js"),
		filepath.Join(dst, "js_main.js"),
	}, written)
	assert.Equal(t, "var a={};a.b=1;", readFile(t, filepath.Join(dst, "js_main.js")))
	assert.Equal(t, "a.b++;", readFile(t, filepath.Join(dst, "js_lib_util.js")))
	assert.NotContains(t, ctx.Prior, "_skip")
	assert.NotContains(t, ctx.Prior, "_dep")
}

func TestCheckPathAgainstPatterns(t *testing.T) {
	patterns := []string{"node_modules/*", "*.min.js"}
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"node_modules/a/b.js", true},
		{"lib/app.min.js", true},
		{"lib/app.js", false},
	}
	for _, tt := range tests {
		got, err := checkPathAgainstPatterns(tt.path, patterns)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := checkPathAgainstPatterns("x", []string{"["})
	assert.Error(t, err)
}

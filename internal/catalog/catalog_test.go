package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redactyl/docredact/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoad_JSON(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "patterns.json", `
	[
		{"pattern": "\\d+", "type": ["pattern1", "pattern12"]},
		{"pattern": "\\w+", "type": ["email", "emails"]}
	]`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Pattern: `\d+`, Types: []string{"pattern1", "pattern12"}},
		{Pattern: `\w+`, Types: []string{"email", "emails"}},
	}, c.Entries)
}

func TestLoad_YAML(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "patterns.yaml", "- pattern: '\\d+'\n  type: [numbers]\n")
	c, err := Load(p)
	require.NoError(t, err)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, `\d+`, c.Entries[0].Pattern)
	assert.Equal(t, []string{"numbers"}, c.Entries[0].Types)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.json")},
		{"malformed", writeTemp(t, dir, "bad.json", `{"pattern": `)},
		{"empty pattern", writeTemp(t, dir, "empty.json", `[{"pattern": "", "type": ["x"]}]`)},
		{"no type", writeTemp(t, dir, "notype.json", `[{"pattern": "a"}]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrCatalog), "got %v", err)
		})
	}
}

func TestResolve_PreservesCatalogOrder(t *testing.T) {
	c := Catalog{Entries: []Entry{
		{Pattern: `a`, Types: []string{"x"}},
		{Pattern: `b`, Types: []string{"y"}},
		{Pattern: `c`, Types: []string{"x", "z"}},
	}}
	res, err := c.Resolve([]string{"z", "x"})
	require.NoError(t, err)
	require.Len(t, res.Patterns, 2)
	assert.Equal(t, "a", res.Patterns[0].Source)
	assert.Equal(t, "c", res.Patterns[1].Source)
	assert.Empty(t, res.Unknown)
}

func TestResolve_Idempotent(t *testing.T) {
	c := Builtin()
	a, err := c.Resolve([]string{"secrets", "emails"})
	require.NoError(t, err)
	b, err := c.Resolve([]string{"secrets", "emails"})
	require.NoError(t, err)
	require.Equal(t, len(a.Patterns), len(b.Patterns))
	for i := range a.Patterns {
		assert.Equal(t, a.Patterns[i].Source, b.Patterns[i].Source)
	}
	assert.Equal(t, Fingerprint(a.Patterns), Fingerprint(b.Patterns))
}

func TestResolve_CompileErrorIsFatal(t *testing.T) {
	c := Catalog{Entries: []Entry{
		{Pattern: `ok`, Types: []string{"x"}},
		{Pattern: `(unclosed`, Types: []string{"x"}},
	}}
	_, err := c.Resolve([]string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPatternCompile))
}

func TestResolve_InvalidPatternOutsideRequestIsFatal(t *testing.T) {
	c := Catalog{Entries: []Entry{
		{Pattern: `ok`, Types: []string{"x"}},
		{Pattern: `(unclosed`, Types: []string{"y"}},
	}}
	_, err := c.Resolve([]string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPatternCompile))
}

func TestLoad_CompilesEveryEntry(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"json", "patterns.json", `[{"pattern": "ok", "type": ["x"]}, {"pattern": "[a-", "type": ["unused"]}]`},
		{"yaml", "patterns.yml", "- pattern: ok\n  type: [x]\n- pattern: '(?P<'\n  type: [unused]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, t.TempDir(), tt.file, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrPatternCompile))
			assert.False(t, errors.Is(err, types.ErrCatalog))
		})
	}
}

func TestResolve_UnknownCategoryIsNotAnError(t *testing.T) {
	res, err := Builtin().Resolve([]string{"emails", "emials"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Patterns)
	assert.Equal(t, []string{"emials"}, res.Unknown)
}

func TestResolve_EmptyRequest(t *testing.T) {
	_, err := Builtin().Resolve([]string{" ", ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCatalog))
}

func TestBuiltin_AllCompile(t *testing.T) {
	c := Builtin()
	var all []string
	for _, ci := range c.Categories() {
		all = append(all, ci.Name)
	}
	res, err := c.Resolve(all)
	require.NoError(t, err)
	assert.Len(t, res.Patterns, len(c.Entries))
}

func TestCategories(t *testing.T) {
	c := Catalog{Entries: []Entry{
		{Pattern: `a`, Types: []string{"x", "y"}},
		{Pattern: `b`, Types: []string{"x"}},
	}}
	assert.Equal(t, []CategoryInfo{{Name: "x", Patterns: 2}, {Name: "y", Patterns: 1}}, c.Categories())
}

func TestOpen_FallsBackToBuiltin(t *testing.T) {
	t.Chdir(t.TempDir())
	c, src, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, "builtin", src)
	assert.NotEmpty(t, c.Entries)
}

func TestOpen_PrefersWorkingDirectoryCatalog(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, DefaultFile, `[{"pattern": "\\d+", "type": ["numbers"]}]`)
	t.Chdir(dir)
	c, src, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFile, src)
	assert.Len(t, c.Entries, 1)
}

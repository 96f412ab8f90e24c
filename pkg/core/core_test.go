package core

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redactyl/docredact/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Builtin(t *testing.T) {
	t.Chdir(t.TempDir())
	p, err := Resolve("", []string{"email", "nosuch"})
	require.NoError(t, err)
	assert.Equal(t, "builtin", p.Source)
	assert.Equal(t, []string{"nosuch"}, p.Unknown)
	assert.NotEmpty(t, p.Fingerprint)
	require.NotNil(t, p.Redactor)
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.json"), []string{"email"})
	assert.True(t, errors.Is(err, types.ErrCatalog))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"pattern":"(","type":["x"]}]`), 0o644))
	_, err = Resolve(bad, []string{"x"})
	assert.True(t, errors.Is(err, types.ErrPatternCompile))
}

func TestCategories(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"pattern":"a","type":["x","y"]},{"pattern":"b","type":["x"]}]`), 0o644))
	cats, err := Categories(p)
	require.NoError(t, err)
	assert.Equal(t, []CategoryInfo{{Name: "x", Patterns: 2}, {Name: "y", Patterns: 1}}, cats)
}

func TestRedactFolder_Smoke(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("mail a@b.io"), 0o644))
	t.Chdir(t.TempDir())
	p, err := Resolve("", []string{"email"})
	require.NoError(t, err)

	res, err := RedactFolder(FolderConfig{Root: dir, Redactor: p.Redactor, Fingerprint: p.Fingerprint})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)

	fr := RedactFile(filepath.Join(dir, "a.txt"), FolderConfig{Redactor: p.Redactor})
	require.NoError(t, fr.Err)
	assert.Equal(t, 1, fr.Records)
}

func TestRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	recs := []RevealRecord{{OriginalText: "x", Token: "t"}}
	require.NoError(t, MarshalRecords(&buf, recs))
	got, err := UnmarshalRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

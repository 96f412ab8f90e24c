package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedByGlobs(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		include  string
		exclude  string
		expected bool
	}{
		{"no globs", "a/b.txt", "", "", true},
		{"include ext", "a/b.pdf", "**/*.pdf", "", true},
		{"include miss", "a/b.txt", "**/*.pdf", "", false},
		{"include base name", "deep/er/b.pdf", "*.pdf", "", true},
		{"exclude dir", "drafts/x.txt", "", "drafts/**", false},
		{"exclude wins", "a/b.pdf", "*.pdf", "a/**", false},
		{"list", "c.docx", "*.pdf, *.docx", "", true},
		{"windows separators", `a\b.txt`, "a/*.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{IncludeGlobs: tt.include, ExcludeGlobs: tt.exclude}
			assert.Equal(t, tt.expected, allowedByGlobs(tt.rel, cfg))
		})
	}
}

func TestDefaultExcludes(t *testing.T) {
	assert.True(t, isDefaultDirExcluded(".git"))
	assert.True(t, isDefaultDirExcluded(".github"))
	assert.True(t, isDefaultDirExcluded("node_modules"))
	assert.False(t, isDefaultDirExcluded("docs"))
	assert.True(t, isDefaultFileExcluded("~$report.docx"))
	assert.True(t, isDefaultFileExcluded(".DS_Store"))
	assert.False(t, isDefaultFileExcluded("report.pdf"))
}

func TestMarkStemCollisions(t *testing.T) {
	tasks := []fileTask{{path: "/d/a.txt"}, {path: "/d/a.pdf"}, {path: "/d/b.txt"}}
	markStemCollisions(tasks)
	assert.True(t, tasks[0].fullManifest)
	assert.True(t, tasks[1].fullManifest)
	assert.False(t, tasks[2].fullManifest)
}

package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// OutputIgnores are the .gitignore patterns for docredact output. Reveal
// manifests hold the original sensitive text and must not be committed.
func OutputIgnores() []string {
	return []string{
		"redacted/",
		"*-unredact.json",
		".docredact-cache.json",
	}
}

// AppendIgnores adds each missing pattern to the .gitignore in root, creating
// the file if needed. It returns the patterns that were added.
func AppendIgnores(root string, patterns []string) ([]string, error) {
	path := filepath.Join(root, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	}

	var add []string
	for _, p := range patterns {
		if p != "" && !existing[p] {
			add = append(add, p)
			existing[p] = true
		}
	}
	if len(add) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b strings.Builder
	if !endsWithNewline {
		b.WriteByte('\n')
	}
	for _, p := range add {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, err
	}
	return add, nil
}

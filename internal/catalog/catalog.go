package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/redactyl/docredact/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the catalog looked up in the working directory when no
// catalog path is configured.
const DefaultFile = "patterns.json"

// Entry is one on-disk catalog record.
type Entry struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Types   []string `json:"type" yaml:"type"`
}

// Catalog is an ordered list of entries. Order matters: patterns are applied
// in catalog order.
type Catalog struct {
	Entries []Entry
}

// Pattern is a compiled catalog entry.
type Pattern struct {
	Source     string
	Categories []string
	Regexp     *regexp.Regexp
}

// Resolution is the outcome of resolving requested categories.
type Resolution struct {
	Patterns []Pattern
	// Unknown lists requested categories that matched no pattern.
	Unknown []string
}

// CategoryInfo summarizes one category for listing.
type CategoryInfo struct {
	Name     string `json:"name"`
	Patterns int    `json:"patterns"`
}

// Load reads a catalog file. JSON is the canonical format; .yml and .yaml
// files are decoded as YAML with the same field names.
func Load(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: read %s: %w", types.ErrCatalog, path, err)
	}
	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(b, &entries)
	default:
		err = json.Unmarshal(b, &entries)
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: parse %s: %w", types.ErrCatalog, path, err)
	}
	for i, e := range entries {
		if e.Pattern == "" {
			return Catalog{}, fmt.Errorf("%w: %s: entry %d has an empty pattern", types.ErrCatalog, path, i)
		}
		if len(e.Types) == 0 {
			return Catalog{}, fmt.Errorf("%w: %s: entry %d has no type", types.ErrCatalog, path, i)
		}
	}
	c := Catalog{Entries: entries}
	if _, err := c.compile(); err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// compile builds a matcher for every entry, requested or not, so a broken
// pattern fails the run whatever categories are selected.
func (c Catalog) compile() ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, len(c.Entries))
	for i, e := range c.Entries {
		rx, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d %q: %w", types.ErrPatternCompile, i, e.Pattern, err)
		}
		out[i] = rx
	}
	return out, nil
}

// Open loads the catalog at path. An empty path falls back to DefaultFile in
// the working directory and then to the built-in catalog. An explicit path
// that cannot be read is an error.
func Open(path string) (Catalog, string, error) {
	if path != "" {
		c, err := Load(path)
		return c, path, err
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		c, err := Load(DefaultFile)
		return c, DefaultFile, err
	}
	return Builtin(), "builtin", nil
}

// Resolve returns, in catalog order, every pattern whose categories
// intersect requested. Any entry that fails to compile is fatal, including
// entries outside the request.
func (c Catalog) Resolve(requested []string) (Resolution, error) {
	want := map[string]bool{}
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if r != "" {
			want[r] = true
		}
	}
	if len(want) == 0 {
		return Resolution{}, fmt.Errorf("%w: no categories requested", types.ErrCatalog)
	}

	compiled, err := c.compile()
	if err != nil {
		return Resolution{}, err
	}

	var res Resolution
	seen := map[string]bool{}
	for i, e := range c.Entries {
		if !intersects(e.Types, want) {
			continue
		}
		for _, t := range e.Types {
			seen[t] = true
		}
		res.Patterns = append(res.Patterns, Pattern{
			Source:     e.Pattern,
			Categories: append([]string(nil), e.Types...),
			Regexp:     compiled[i],
		})
	}
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if r != "" && !seen[r] && !contains(res.Unknown, r) {
			res.Unknown = append(res.Unknown, r)
		}
	}
	return res, nil
}

// Categories returns every category with its pattern count, sorted by name.
func (c Catalog) Categories() []CategoryInfo {
	counts := map[string]int{}
	for _, e := range c.Entries {
		for _, t := range e.Types {
			counts[t]++
		}
	}
	out := make([]CategoryInfo, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryInfo{Name: name, Patterns: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Regexps extracts the compiled matchers in order.
func Regexps(ps []Pattern) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(ps))
	for i, p := range ps {
		out[i] = p.Regexp
	}
	return out
}

// Fingerprint identifies an ordered pattern list. Two resolutions with the
// same sources in the same order share a fingerprint.
func Fingerprint(ps []Pattern) string {
	d := xxhash.New()
	for _, p := range ps {
		_, _ = d.WriteString(p.Source)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func intersects(ts []string, want map[string]bool) bool {
	for _, t := range ts {
		if want[t] {
			return true
		}
	}
	return false
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

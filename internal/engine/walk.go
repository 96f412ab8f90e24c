package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/redactyl/docredact/internal/manifest"
	"github.com/redactyl/docredact/internal/types"
)

// listing is one directory's children after filtering.
type listing struct {
	files   []fileTask
	subdirs []string
	skipped []types.FileResult
}

type fileTask struct {
	path string
	// fullManifest is set when another file in the directory shares the stem.
	fullManifest bool
}

// list reads dir and partitions its children. Symlinked directories are not
// followed. Files rejected by globs or default excludes are dropped silently;
// files over MaxBytes come back as skipped results.
func list(cfg Config, dir string) (listing, error) {
	var out listing
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %w", types.ErrDirectoryRead, dir, err)
	}
	for _, d := range entries {
		name := d.Name()
		p := filepath.Join(dir, name)
		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			st, err := os.Stat(p)
			if err != nil || st.IsDir() {
				continue
			}
			mode = st.Mode().Type()
		}
		if mode.IsDir() {
			if name == OutputDirName || (cfg.DefaultExcludes && isDefaultDirExcluded(name)) {
				continue
			}
			out.subdirs = append(out.subdirs, p)
			continue
		}
		if !mode.IsRegular() {
			continue
		}
		if cfg.DefaultExcludes && isDefaultFileExcluded(name) {
			continue
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if !allowedByGlobs(rel, cfg) {
			continue
		}
		if cfg.MaxBytes > 0 {
			if info, err := d.Info(); err == nil && info.Size() > cfg.MaxBytes {
				out.skipped = append(out.skipped, types.FileResult{
					Path: p, Skipped: true,
					SkipReason: fmt.Sprintf("larger than %d bytes", cfg.MaxBytes),
				})
				continue
			}
		}
		out.files = append(out.files, fileTask{path: p})
	}
	markStemCollisions(out.files)
	return out, nil
}

// markStemCollisions switches files sharing a manifest stem (report.pdf and
// report.txt) to the full-name manifest so neither overwrites the other.
func markStemCollisions(tasks []fileTask) {
	seen := make(map[string]int, len(tasks))
	for _, t := range tasks {
		seen[manifest.Name(t.path, false)]++
	}
	for i := range tasks {
		if seen[manifest.Name(tasks[i].path, false)] > 1 {
			tasks[i].fullManifest = true
		}
	}
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// globs in cfg. Include globs, when present, must match; exclude globs must not.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// CountTargets returns how many files a RedactFolder call with cfg would
// dispatch, including unsupported ones. Directory errors are ignored.
func CountTargets(cfg Config) int {
	n := 0
	queue := []string{cfg.Root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		l, err := list(cfg, dir)
		if err != nil {
			continue
		}
		n += len(l.files)
		if cfg.Recursive {
			queue = append(queue, l.subdirs...)
		}
	}
	return n
}

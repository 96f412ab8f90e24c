package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redactyl/docredact/internal/cache"
	"github.com/redactyl/docredact/internal/files"
	"github.com/redactyl/docredact/internal/job"
	"github.com/redactyl/docredact/internal/logging"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
	"golang.org/x/sync/errgroup"
)

// Config controls folder redaction: scope, filters and parallelism.
type Config struct {
	Root      string
	Recursive bool
	// Threads bounds concurrent jobs per directory; <= 0 means GOMAXPROCS.
	Threads int
	// Comma-separated doublestar globs, matched against paths relative to
	// Root and against base names.
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	DefaultExcludes bool
	// Incremental skips files whose bytes and patterns match the last run
	// and whose outputs still exist.
	Incremental bool
	Redactor    *redact.Redactor
	// Fingerprint identifies the resolved patterns for the incremental cache.
	Fingerprint string
	Logger      *log.Logger
	// Progress is called once per file result. Calls are serialized.
	Progress func(types.FileResult)
}

// Result summarizes a folder run. Files are in discovery order: directories
// breadth first, entries within a directory by name.
type Result struct {
	Files       []types.FileResult
	DirErrors   []error
	Directories []string

	FilesRedacted int
	FilesFailed   int
	FilesSkipped  int
	Unsupported   int
	Records       int
	Duration      time.Duration
}

// HasFailures reports whether any supported file failed. Unsupported formats
// do not count.
func (r Result) HasFailures() bool {
	return r.FilesFailed > r.Unsupported
}

func (r *Result) add(fr types.FileResult) {
	r.Files = append(r.Files, fr)
	switch {
	case fr.Failed():
		r.FilesFailed++
		if errors.Is(fr.Err, types.ErrUnsupportedFormat) {
			r.Unsupported++
		}
	case fr.Skipped:
		r.FilesSkipped++
	default:
		r.FilesRedacted++
		r.Records += fr.Records
	}
}

type scheduler struct {
	cfg Config
	lg  *log.Logger
	mu  sync.Mutex
}

// RedactFolder redacts every file under cfg.Root. Only an unusable root is
// an error; per-file failures land in Result.Files and unreadable or
// unwritable directories in Result.DirErrors.
func RedactFolder(cfg Config) (Result, error) {
	start := time.Now()
	var res Result
	st, err := os.Stat(cfg.Root)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", types.ErrDirectoryRead, cfg.Root, err)
	}
	if !st.IsDir() {
		return res, fmt.Errorf("%w: %s: not a directory", types.ErrDirectoryRead, cfg.Root)
	}
	s := &scheduler{cfg: cfg, lg: logging.OrDiscard(cfg.Logger)}

	queue := []string{cfg.Root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		res.Directories = append(res.Directories, dir)

		subdirs, err := s.directory(dir, &res)
		if err != nil {
			s.lg.Warn("directory skipped", "dir", dir, "err", err)
			res.DirErrors = append(res.DirErrors, err)
		}
		if cfg.Recursive {
			queue = append(queue, subdirs...)
		}
	}
	res.Duration = time.Since(start)
	return res, nil
}

// directory processes the files directly inside dir and returns its
// subdirectories. A returned error is soft: subdirectories are still
// returned when the listing succeeded.
func (s *scheduler) directory(dir string, res *Result) ([]string, error) {
	// Every visited directory gets an output folder, even one without files.
	outDir := filepath.Join(dir, OutputDirName)
	var dirErr error
	if err := files.EnsureDir(outDir); err != nil {
		dirErr = fmt.Errorf("%w: %s: %w", types.ErrOutputDirCreate, outDir, err)
	}
	l, err := list(s.cfg, dir)
	if err != nil {
		return nil, err
	}
	for _, fr := range l.skipped {
		s.report(fr)
		res.add(fr)
	}
	if dirErr != nil || len(l.files) == 0 {
		return l.subdirs, dirErr
	}

	db, err := cache.Load(outDir)
	if err != nil {
		s.lg.Warn("ignoring unreadable cache", "dir", outDir, "err", err)
	}
	results := s.runAll(l.files, outDir, db)
	for _, fr := range results {
		res.add(fr)
	}
	s.saveCache(outDir, db, results)
	return l.subdirs, nil
}

// runAll dispatches one job per task through a pool bounded by Threads and
// returns results in task order.
func (s *scheduler) runAll(tasks []fileTask, outDir string, db cache.DB) []types.FileResult {
	threads := s.cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	results := make([]types.FileResult, len(tasks))
	var g errgroup.Group
	g.SetLimit(threads)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = s.runOne(t, outDir, db)
			s.report(results[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *scheduler) runOne(t fileTask, outDir string, db cache.DB) types.FileResult {
	opts := job.Options{
		OutputDir:        outDir,
		Redactor:         s.cfg.Redactor,
		FullManifestName: t.fullManifest,
		Logger:           s.cfg.Logger,
	}
	if _, err := job.DetectFormat(t.path); err != nil {
		return job.Run(t.path, opts)
	}
	src, err := os.ReadFile(t.path)
	if err != nil {
		return job.Run(t.path, opts)
	}
	if s.cfg.Incremental {
		digest := job.Digest(src)
		if e, ok := db.Fresh(filepath.Base(t.path), digest, s.cfg.Fingerprint); ok {
			s.lg.Debug("unchanged", "path", t.path)
			fr := types.FileResult{
				Path: t.path, Output: e.Output, Manifest: e.Manifest, Records: e.Records,
				Skipped: true, SkipReason: "unchanged", Digest: digest,
			}
			fr.Format, _ = job.DetectFormat(t.path)
			return fr
		}
	}
	return job.RunBytes(t.path, src, opts)
}

func (s *scheduler) report(fr types.FileResult) {
	if fr.Failed() {
		s.lg.Warn("file failed", "path", fr.Path, "err", fr.Err)
	}
	if s.cfg.Progress == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Progress(fr)
}

// saveCache records successful redactions. It runs in every mode so an
// incremental run never trusts outputs written by a later full run with
// other patterns.
func (s *scheduler) saveCache(outDir string, db cache.DB, results []types.FileResult) {
	changed := false
	for _, fr := range results {
		if fr.Failed() || fr.Skipped || fr.Digest == "" {
			continue
		}
		db.Entries[filepath.Base(fr.Path)] = cache.Entry{
			Digest:      fr.Digest,
			Fingerprint: s.cfg.Fingerprint,
			Output:      fr.Output,
			Manifest:    fr.Manifest,
			Records:     fr.Records,
		}
		changed = true
	}
	if !changed {
		return
	}
	if err := cache.Save(outDir, db); err != nil {
		s.lg.Warn("could not save cache", "dir", outDir, "err", err)
	}
}

// RedactFile redacts a single file into "<parent>/redacted". Incremental,
// Fingerprint, Redactor and Logger in cfg apply; the folder filters do not.
func RedactFile(path string, cfg Config) types.FileResult {
	s := &scheduler{cfg: cfg, lg: logging.OrDiscard(cfg.Logger)}
	outDir := filepath.Join(filepath.Dir(path), OutputDirName)
	if _, err := job.DetectFormat(path); err != nil {
		return job.Run(path, job.Options{OutputDir: outDir})
	}
	if err := files.EnsureDir(outDir); err != nil {
		err = fmt.Errorf("%w: %s: %w", types.ErrOutputDirCreate, outDir, err)
		return types.FileResult{Path: path, Err: err, Error: err.Error()}
	}
	db, err := cache.Load(outDir)
	if err != nil {
		s.lg.Warn("ignoring unreadable cache", "dir", outDir, "err", err)
	}
	fr := s.runOne(fileTask{path: path}, outDir, db)
	s.saveCache(outDir, db, []types.FileResult{fr})
	return fr
}

package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/redactyl/docredact/internal/adapter"
	"github.com/redactyl/docredact/internal/files"
	"github.com/redactyl/docredact/internal/logging"
	"github.com/redactyl/docredact/internal/manifest"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
)

// Options configures one file job.
type Options struct {
	// OutputDir receives the redacted document and its manifest. It must
	// exist.
	OutputDir string
	Redactor  *redact.Redactor
	// FullManifestName keeps the source extension in the manifest name.
	FullManifestName bool
	Logger           *log.Logger
}

// DetectFormat selects the document format from the file extension,
// ignoring case.
func DetectFormat(path string) (types.Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch types.Format(ext) {
	case types.FormatText, types.FormatPDF, types.FormatDOCX:
		return types.Format(ext), nil
	}
	return "", fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, filepath.Base(path))
}

// Digest fingerprints source bytes for the incremental cache.
func Digest(src []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(src))
}

// Run redacts the file at path into opts.OutputDir.
func Run(path string, opts Options) types.FileResult {
	if _, err := DetectFormat(path); err != nil {
		return failed(types.FileResult{Path: path}, err, time.Now())
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return failed(types.FileResult{Path: path}, fmt.Errorf("%w: %w", types.ErrDocumentLoad, err), time.Now())
	}
	return RunBytes(path, src, opts)
}

// RunBytes redacts src, read from path, into opts.OutputDir. Steps run
// strictly in order: detect format, redact, write the document, write the
// manifest. A failure at any step leaves neither output behind.
func RunBytes(path string, src []byte, opts Options) types.FileResult {
	start := time.Now()
	lg := logging.OrDiscard(opts.Logger)
	res := types.FileResult{Path: path}

	format, err := DetectFormat(path)
	if err != nil {
		return failed(res, err, start)
	}
	res.Format = format
	res.Digest = Digest(src)

	ad, err := adapter.For(format)
	if err != nil {
		return failed(res, err, start)
	}
	r := opts.Redactor
	if r == nil {
		r = redact.New(nil)
	}
	out, records, err := ad.Redact(src, r)
	if err != nil {
		return failed(res, err, start)
	}

	name := filepath.Base(path)
	outPath := filepath.Join(opts.OutputDir, name)
	manifestPath := filepath.Join(opts.OutputDir, manifest.Name(name, opts.FullManifestName))

	if err := files.WriteAtomic(outPath, out, 0o644); err != nil {
		return failed(res, fmt.Errorf("%w: %s: %w", types.ErrDocumentWrite, outPath, err), start)
	}
	if err := manifest.Write(manifestPath, records); err != nil {
		if rmErr := os.Remove(outPath); rmErr != nil {
			lg.Warn("could not remove redacted document after manifest failure", "path", outPath, "err", rmErr)
		}
		return failed(res, fmt.Errorf("%w: %s: %w", types.ErrDocumentWrite, manifestPath, err), start)
	}

	res.Output = outPath
	res.Manifest = manifestPath
	res.Records = len(records)
	res.Duration = time.Since(start)
	lg.Debug("redacted", "path", path, "format", format, "records", res.Records, "took", res.Duration)
	return res
}

func failed(res types.FileResult, err error, start time.Time) types.FileResult {
	res.Err = err
	res.Error = err.Error()
	res.Duration = time.Since(start)
	return res
}

package core

import (
	"github.com/redactyl/docredact/internal/catalog"
	"github.com/redactyl/docredact/internal/engine"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	FolderConfig = engine.Config
	FolderResult = engine.Result
	FileResult   = types.FileResult
	RevealRecord = types.RevealRecord
	Redactor     = redact.Redactor
	TextResult   = redact.Result
	CategoryInfo = catalog.CategoryInfo
)

// Patterns is a resolved set of patterns ready to redact with.
type Patterns struct {
	Redactor *Redactor
	// Fingerprint identifies the pattern list for incremental runs.
	Fingerprint string
	// Unknown lists requested categories no pattern carries.
	Unknown []string
	// Source is the catalog path, or "builtin".
	Source string
}

// Resolve loads the catalog at catalogPath (empty: ./patterns.json, then the
// built-in catalog) and compiles the patterns for categories.
func Resolve(catalogPath string, categories []string) (Patterns, error) {
	cat, src, err := catalog.Open(catalogPath)
	if err != nil {
		return Patterns{}, err
	}
	res, err := cat.Resolve(categories)
	if err != nil {
		return Patterns{}, err
	}
	return Patterns{
		Redactor:    redact.New(catalog.Regexps(res.Patterns)),
		Fingerprint: catalog.Fingerprint(res.Patterns),
		Unknown:     res.Unknown,
		Source:      src,
	}, nil
}

// Categories lists the categories of the catalog at catalogPath.
func Categories(catalogPath string) ([]CategoryInfo, error) {
	cat, _, err := catalog.Open(catalogPath)
	if err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

// RedactText redacts an in-memory string.
func RedactText(r *Redactor, text string) TextResult {
	return r.Redact(text)
}

// RevealText puts the original text back in place of each token.
func RevealText(text string, records []RevealRecord) string {
	return redact.Restore(text, records)
}

// RedactFile redacts one file into the "redacted" folder next to it.
func RedactFile(path string, cfg FolderConfig) FileResult {
	return engine.RedactFile(path, cfg)
}

// RedactFolder is the stable entrypoint for folder redaction.
func RedactFolder(cfg FolderConfig) (FolderResult, error) {
	return engine.RedactFolder(cfg)
}

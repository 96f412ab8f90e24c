// Package cache stores the incremental-mode state for one output folder:
// for each source file name, the digest of the bytes last redacted and the
// fingerprint of the patterns used.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redactyl/docredact/internal/files"
)

// FileName is the cache file kept inside each output folder.
const FileName = ".docredact-cache.json"

// Entry records how a source file was last redacted.
type Entry struct {
	Digest      string `json:"digest"`
	Fingerprint string `json:"fingerprint"`
	Output      string `json:"output"`
	Manifest    string `json:"manifest"`
	Records     int    `json:"records"`
}

type DB struct {
	// Source file name (no directory) -> last successful redaction.
	Entries map[string]Entry `json:"entries"`
}

// Path returns the cache file location for an output folder.
func Path(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Load reads the cache for outDir. A missing file yields an empty DB and no
// error; a corrupt file yields an empty DB and the decode error.
func Load(outDir string) (DB, error) {
	db := DB{Entries: map[string]Entry{}}
	b, err := os.ReadFile(Path(outDir))
	if errors.Is(err, os.ErrNotExist) {
		return db, nil
	}
	if err != nil {
		return db, err
	}
	var parsed DB
	if err := json.Unmarshal(b, &parsed); err != nil {
		return db, fmt.Errorf("decode %s: %w", Path(outDir), err)
	}
	if parsed.Entries != nil {
		db.Entries = parsed.Entries
	}
	return db, nil
}

// Save writes db atomically into outDir.
func Save(outDir string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return files.WriteAtomic(Path(outDir), append(b, '\n'), 0o644)
}

// Fresh reports whether name was last redacted from identical bytes with the
// same patterns and both of its outputs still exist.
func (db DB) Fresh(name, digest, fingerprint string) (Entry, bool) {
	e, ok := db.Entries[name]
	if !ok || e.Digest != digest || e.Fingerprint != fingerprint {
		return Entry{}, false
	}
	if !files.Exists(e.Output) || !files.Exists(e.Manifest) {
		return Entry{}, false
	}
	return e, true
}

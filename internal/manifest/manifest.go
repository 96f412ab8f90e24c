package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactyl/docredact/internal/files"
	"github.com/redactyl/docredact/internal/types"
)

// Suffix is appended to the manifest stem.
const Suffix = "-unredact.json"

// Name returns the manifest file name for a document. The default form uses
// the file stem ("report.pdf" → "report-unredact.json"); full keeps the
// extension ("report.pdf-unredact.json") for directories where two
// documents share a stem.
func Name(filename string, full bool) string {
	base := filepath.Base(filename)
	if full {
		return base + Suffix
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + Suffix
}

// Encode renders records as a pretty-printed JSON array. An empty record
// list encodes as [].
func Encode(records []types.RevealRecord) ([]byte, error) {
	if records == nil {
		records = []types.RevealRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores records at path atomically. Manifests contain the original
// text, so they are written owner-readable only.
func Write(path string, records []types.RevealRecord) error {
	b, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return files.WriteAtomic(path, b, 0o600)
}

// Load reads a manifest written by Write.
func Load(path string) ([]types.RevealRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.RevealRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return records, nil
}

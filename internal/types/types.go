package types

import "time"

// Format identifies a supported document format by its file extension.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// RevealRecord maps a redaction token back to the text it replaced. The JSON
// field names are part of the manifest format and must stay stable.
type RevealRecord struct {
	OriginalText string `json:"original_text"`
	Token        string `json:"token"`
}

// FileResult describes the outcome of redacting one file. Err is nil on
// success; Skipped is set when the file was deliberately not processed
// (filtered out, too large, or unchanged in incremental mode).
type FileResult struct {
	Path       string        `json:"path"`
	Format     Format        `json:"format,omitempty"`
	Output     string        `json:"output,omitempty"`
	Manifest   string        `json:"manifest,omitempty"`
	Records    int           `json:"records"`
	Skipped    bool          `json:"skipped,omitempty"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Digest     string        `json:"-"`
	Err        error         `json:"-"`
}

// Failed reports whether the file was attempted and did not complete.
func (r FileResult) Failed() bool { return r.Err != nil }

// Package audit appends one JSON line per docredact run to a log kept in the
// root output folder. Records carry paths, counts and outcomes but never
// original text.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redactyl/docredact/internal/report"
	"github.com/redactyl/docredact/internal/types"
)

// FileName is the audit log inside the output folder.
const FileName = ".docredact-audit.jsonl"

type RunRecord struct {
	Timestamp   time.Time      `json:"timestamp"`
	RunID       string         `json:"run_id"`
	Mode        string         `json:"mode"`
	Root        string         `json:"root"`
	Categories  []string       `json:"categories"`
	Fingerprint string         `json:"fingerprint"`
	Summary     report.Summary `json:"summary"`
	Directories int            `json:"directories,omitempty"`
	DirErrors   int            `json:"dir_errors,omitempty"`
	Duration    string         `json:"duration"`
	Files       []FileSummary  `json:"files,omitempty"`
}

type FileSummary struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Records  int    `json:"records"`
	Manifest string `json:"manifest,omitempty"`
	Error    string `json:"error,omitempty"`
}

type AuditLog struct {
	logPath string
}

// NewAuditLog returns the log for the output folder outDir.
func NewAuditLog(outDir string) *AuditLog {
	return &AuditLog{logPath: filepath.Join(outDir, FileName)}
}

func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns the records newest first. Reading stops at the
// first malformed line.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LogRun appends record, assigning a run ID when it has none.
func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}

	// Owner-only: the log names the files holding sensitive text.
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// CreateRunRecord builds a record for one invocation.
func CreateRunRecord(mode, root string, categories []string, fingerprint string, files []types.FileResult, duration time.Duration) RunRecord {
	summaries := make([]FileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, FileSummary{
			Path:     f.Path,
			Status:   report.Status(f),
			Records:  f.Records,
			Manifest: f.Manifest,
			Error:    f.Error,
		})
	}
	return RunRecord{
		Timestamp:   time.Now().UTC(),
		RunID:       uuid.NewString(),
		Mode:        mode,
		Root:        root,
		Categories:  categories,
		Fingerprint: fingerprint,
		Summary:     report.Summarize(files),
		Duration:    duration.String(),
		Files:       summaries,
	}
}

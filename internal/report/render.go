// Package report renders redaction results as a table, plain text or JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/docredact/internal/types"
	"golang.org/x/term"
)

const (
	StatusRedacted    = "redacted"
	StatusSkipped     = "skipped"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
)

type PrintOptions struct {
	NoColor     bool
	Duration    time.Duration
	Directories int
	DirErrors   []error
}

// Summary tallies file results by status.
type Summary struct {
	Redacted    int `json:"redacted"`
	Skipped     int `json:"skipped"`
	Unsupported int `json:"unsupported"`
	Failed      int `json:"failed"`
	Records     int `json:"records"`
}

func Summarize(files []types.FileResult) Summary {
	var s Summary
	for _, f := range files {
		switch Status(f) {
		case StatusRedacted:
			s.Redacted++
			s.Records += f.Records
		case StatusSkipped:
			s.Skipped++
		case StatusUnsupported:
			s.Unsupported++
		default:
			s.Failed++
		}
	}
	return s
}

// Status classifies a file result.
func Status(f types.FileResult) string {
	switch {
	case errors.Is(f.Err, types.ErrUnsupportedFormat):
		return StatusUnsupported
	case f.Failed():
		return StatusFailed
	case f.Skipped:
		return StatusSkipped
	default:
		return StatusRedacted
	}
}

var statusColors = map[string]lipgloss.Color{
	StatusRedacted:    lipgloss.Color("2"),
	StatusSkipped:     lipgloss.Color("6"),
	StatusUnsupported: lipgloss.Color("3"),
	StatusFailed:      lipgloss.Color("1"),
}

// StyleStatus renders a status label, coloured unless color is false.
func StyleStatus(status string, color bool) string {
	c, ok := statusColors[status]
	if !color || !ok {
		return status
	}
	return lipgloss.NewStyle().Foreground(c).Bold(status == StatusFailed).Render(status)
}

// ColorEnabled reports whether output to f should be coloured.
func ColorEnabled(noColor bool, f *os.File) bool {
	if noColor || os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func detail(f types.FileResult) string {
	switch Status(f) {
	case StatusRedacted:
		return f.Output
	case StatusSkipped:
		return f.SkipReason
	default:
		return f.Error
	}
}

// PrintTable writes one table row per file followed by the summary footer.
func PrintTable(w io.Writer, files []types.FileResult, opts PrintOptions) error {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files processed")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("STATUS", "FILE", "FORMAT", "RECORDS", "DETAIL")
		for _, f := range files {
			row := []string{
				StyleStatus(Status(f), !opts.NoColor),
				f.Path,
				string(f.Format),
				strconv.Itoa(f.Records),
				detail(f),
			}
			if err := table.Append(row); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(w, files, opts)
	return nil
}

// PrintText writes one plain line per file followed by the summary footer.
func PrintText(w io.Writer, files []types.FileResult, opts PrintOptions) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files processed")
	}
	for _, f := range files {
		st := StyleStatus(Status(f), !opts.NoColor)
		pad := len(StatusUnsupported) - len(Status(f))
		fmt.Fprintf(w, "%s%*s %s  %d records  %s\n", st, pad, "", f.Path, f.Records, detail(f))
	}
	printFooter(w, files, opts)
}

func printFooter(w io.Writer, files []types.FileResult, opts PrintOptions) {
	for _, err := range opts.DirErrors {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
	s := Summarize(files)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files: %d (redacted: %d, skipped: %d, unsupported: %d, failed: %d)\n",
		len(files), s.Redacted, s.Skipped, s.Unsupported, s.Failed)
	fmt.Fprintf(w, "Redactions: %d\n", s.Records)
	if opts.Directories > 0 {
		fmt.Fprintf(w, "Directories: %d\n", opts.Directories)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Duration: %.2fs\n", opts.Duration.Seconds())
	}
}

// JSONReport is the --json output shape.
type JSONReport struct {
	Files      []types.FileResult `json:"files"`
	DirErrors  []string           `json:"dir_errors"`
	Summary    Summary            `json:"summary"`
	DurationNS int64              `json:"duration_ns"`
}

func WriteJSON(w io.Writer, files []types.FileResult, opts PrintOptions) error {
	rep := JSONReport{
		Files:      files,
		DirErrors:  []string{},
		Summary:    Summarize(files),
		DurationNS: opts.Duration.Nanoseconds(),
	}
	if rep.Files == nil {
		rep.Files = []types.FileResult{}
	}
	for _, err := range opts.DirErrors {
		rep.DirErrors = append(rep.DirErrors, err.Error())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redactyl/docredact/internal/catalog"
	"github.com/redactyl/docredact/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []types.FileResult {
	unsupported := fmt.Errorf("%w: a.csv", types.ErrUnsupportedFormat)
	broken := fmt.Errorf("%w: bad", types.ErrDocumentLoad)
	return []types.FileResult{
		{Path: "r.txt", Format: types.FormatText, Output: "redacted/r.txt", Records: 3},
		{Path: "big.pdf", Skipped: true, SkipReason: "larger than 10 bytes"},
		{Path: "a.csv", Err: unsupported, Error: unsupported.Error()},
		{Path: "x.pdf", Format: types.FormatPDF, Err: broken, Error: broken.Error()},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())
	assert.Equal(t, Summary{Redacted: 1, Skipped: 1, Unsupported: 1, Failed: 1, Records: 3}, s)
}

func TestStyleStatus_NoColorIsPlain(t *testing.T) {
	for _, st := range []string{StatusRedacted, StatusSkipped, StatusUnsupported, StatusFailed} {
		assert.Equal(t, st, StyleStatus(st, false))
		assert.Contains(t, StyleStatus(st, true), st)
	}
	assert.Equal(t, "other", StyleStatus("other", true))
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, ColorEnabled(true, nil))
	assert.False(t, ColorEnabled(false, nil))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(false, nil))
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sample(), PrintOptions{NoColor: true, Duration: 1500 * time.Millisecond, Directories: 2})
	out := buf.String()
	assert.Contains(t, out, "redacted    r.txt  3 records  redacted/r.txt")
	assert.Contains(t, out, "larger than 10 bytes")
	assert.Contains(t, out, "Files: 4 (redacted: 1, skipped: 1, unsupported: 1, failed: 1)")
	assert.Contains(t, out, "Redactions: 3")
	assert.Contains(t, out, "Directories: 2")
	assert.Contains(t, out, "Duration: 1.50s")
}

func TestPrintText_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{NoColor: true, DirErrors: []error{errors.New("cannot read sub")}})
	assert.Contains(t, buf.String(), "No files processed")
	assert.Contains(t, buf.String(), "warning: cannot read sub")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, sample(), PrintOptions{NoColor: true}))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "STATUS")
	assert.Contains(t, out, "r.txt")
	assert.Contains(t, out, "unsupported")
	assert.Contains(t, out, "Files: 4")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample(), PrintOptions{Duration: time.Second, DirErrors: []error{errors.New("boom")}}))
	var rep struct {
		Files []struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		} `json:"files"`
		DirErrors  []string `json:"dir_errors"`
		Summary    Summary  `json:"summary"`
		DurationNS int64    `json:"duration_ns"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Len(t, rep.Files, 4)
	assert.Equal(t, []string{"boom"}, rep.DirErrors)
	assert.Equal(t, 3, rep.Summary.Records)
	assert.Equal(t, int64(time.Second), rep.DurationNS)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"files\""))

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil, PrintOptions{}))
	assert.Contains(t, buf.String(), "\"files\": []")
}

func TestPrintCategories(t *testing.T) {
	cats := []catalog.CategoryInfo{{Name: "email", Patterns: 1}, {Name: "secrets", Patterns: 12}}
	var buf bytes.Buffer
	require.NoError(t, PrintCategories(&buf, "builtin", cats))
	assert.Contains(t, buf.String(), "secrets")
	assert.Contains(t, buf.String(), "12")
	assert.Contains(t, buf.String(), "Catalog: builtin")

	buf.Reset()
	require.NoError(t, PrintCategories(&buf, "empty.json", nil))
	assert.Equal(t, "No categories in empty.json\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCategoriesJSON(&buf, "builtin", cats))
	var got struct {
		Catalog    string                 `json:"catalog"`
		Categories []catalog.CategoryInfo `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, cats, got.Categories)
}

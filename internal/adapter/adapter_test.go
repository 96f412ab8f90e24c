package adapter

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-pdf/fpdf"
	pdfobj "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/redactyl/docredact/internal/docx"
	"github.com/redactyl/docredact/internal/pdf"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digits() *redact.Redactor {
	var n atomic.Int64
	return redact.New(
		[]*regexp.Regexp{regexp.MustCompile(`\d{3}-\d{4}`)},
		redact.WithTokens(func() string { return fmt.Sprintf("tok%d", n.Add(1)) }),
	)
}

func TestFor(t *testing.T) {
	for _, f := range []types.Format{types.FormatText, types.FormatPDF, types.FormatDOCX} {
		a, err := For(f)
		require.NoError(t, err)
		assert.Equal(t, f, a.Format())
	}
	_, err := For("csv")
	assert.True(t, errors.Is(err, types.ErrUnsupportedFormat))
}

func TestText(t *testing.T) {
	out, recs, err := Text{}.Redact([]byte("call 555-1234\nor 555-9876\n"), digits())
	require.NoError(t, err)
	assert.Equal(t, "call [REDACTED:tok2]\nor [REDACTED:tok1]\n", string(out))
	require.Len(t, recs, 2)
	assert.Equal(t, "555-9876", recs[0].OriginalText)
	assert.Equal(t, "555-1234", recs[1].OriginalText)
}

// buildPDF returns a one-page document whose page content is content, with
// /F1 standing for its only font (Helvetica, WinAnsiEncoding).
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()
	f := fpdf.New("P", "mm", "A4", "")
	f.SetCompression(false)
	f.AddPage()
	f.SetFont("Helvetica", "", 12)
	var buf bytes.Buffer
	require.NoError(t, f.Output(&buf))

	doc, err := pdf.Load(buf.Bytes())
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	fonts := doc.PageFonts(pages[0])
	require.Len(t, fonts, 1)
	for name := range fonts {
		content = strings.ReplaceAll(content, "/F1 ", "/"+name+" ")
	}
	require.NoError(t, doc.SetPageContent(pages[0], []byte(content)))
	out, err := doc.Bytes()
	require.NoError(t, err)
	return out
}

func pageStrings(t *testing.T, data []byte) []string {
	t.Helper()
	doc, err := pdf.Load(data)
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)
	var out []string
	add := func(o pdfobj.Object) {
		if b, ok := pdf.StringBytes(o); ok {
			out = append(out, string(b))
		}
	}
	for _, p := range pages {
		content, err := doc.PageContent(p)
		require.NoError(t, err)
		ins, err := pdf.ParseContent(content)
		require.NoError(t, err)
		for _, in := range ins {
			for _, o := range in.Operands {
				add(o)
				if arr, ok := o.(pdfobj.Array); ok {
					for _, e := range arr {
						add(e)
					}
				}
			}
		}
	}
	return out
}

func TestPDF_RedactsTextOperators(t *testing.T) {
	content := "BT /F1 12 Tf 72 700 Td (call 555-1234) Tj [(a) -10 (555-9876)] TJ (555-0000) ' 1 2 (x 555-1111) \" ET"
	out, recs, err := PDF{}.Redact(buildPDF(t, content), digits())
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "555-1234", recs[0].OriginalText)
	assert.Equal(t, "555-9876", recs[1].OriginalText)
	assert.Equal(t, "555-0000", recs[2].OriginalText)
	assert.Equal(t, "555-1111", recs[3].OriginalText)

	assert.Equal(t, []string{
		"call [REDACTED:tok1]", "a", "[REDACTED:tok2]", "[REDACTED:tok3]", "x [REDACTED:tok4]",
	}, pageStrings(t, out))
}

func TestPDF_CodecFollowsFont(t *testing.T) {
	// 0x80 is the euro sign in WinAnsiEncoding and a C1 control in Latin-1.
	content := "BT /F1 12 Tf (\\200 555-1234) Tj ET"
	out, recs, err := PDF{}.Redact(buildPDF(t, content), digits())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"\x80 [REDACTED:tok1]"}, pageStrings(t, out))
}

func TestPDF_NoMatchKeepsDocument(t *testing.T) {
	src := buildPDF(t, "BT /F1 12 Tf (nothing here) Tj ET")
	out, recs, err := PDF{}.Redact(src, digits())
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, src, out)
}

func TestPDF_Errors(t *testing.T) {
	_, _, err := PDF{}.Redact([]byte("garbage"), digits())
	assert.True(t, errors.Is(err, types.ErrDocumentLoad))

	_, _, err = PDF{}.Redact(buildPDF(t, "BT 12 Tf (555-1234) Tj ET"), digits())
	assert.True(t, errors.Is(err, types.ErrDocumentPage))

	_, _, err = PDF{}.Redact(buildPDF(t, "BT (unterminated Tj ET"), digits())
	assert.True(t, errors.Is(err, types.ErrDocumentPage))
	assert.True(t, errors.Is(err, pdf.ErrMalformed))
}

func TestRewriteText_Fonts(t *testing.T) {
	tests := []struct {
		name    string
		fonts   map[string]pdf.Font
		content string
		want    []string
	}{
		{
			name:    "simple font",
			fonts:   map[string]pdf.Font{"F1": {Subtype: "Type1", Encoding: "WinAnsiEncoding"}},
			content: "/F1 12 Tf (555-1234) Tj",
			want:    []string{"[REDACTED:tok1]"},
		},
		{
			name:    "missing font reads as Latin-1",
			fonts:   map[string]pdf.Font{},
			content: "/F9 12 Tf (555-1234) Tj",
			want:    []string{"[REDACTED:tok1]"},
		},
		{
			name:    "composite font is skipped",
			fonts:   map[string]pdf.Font{"F2": {Subtype: "Type0", Encoding: "Identity-H"}},
			content: "/F2 12 Tf (555-1234) Tj",
			want:    []string{"555-1234"},
		},
		{
			name: "codec switches back after composite font",
			fonts: map[string]pdf.Font{
				"F1": {Subtype: "Type1", Encoding: "WinAnsiEncoding"},
				"F2": {Subtype: "Type0", Encoding: "Identity-H"},
			},
			content: "/F2 12 Tf <0035003500350031> Tj /F1 12 Tf (555-1234) Tj",
			want:    []string{"\x005\x005\x005\x001", "[REDACTED:tok1]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := pdf.ParseContent([]byte(tt.content))
			require.NoError(t, err)
			_, err = rewriteText(ins, tt.fonts, digits())
			require.NoError(t, err)

			var got []string
			for _, in := range ins {
				if in.Operator != "Tj" {
					continue
				}
				b, ok := pdf.StringBytes(in.Operands[0])
				require.True(t, ok)
				got = append(got, string(b))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func buildDocx(t *testing.T, paragraphs string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docx.DocumentPart)
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + paragraphs + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCX(t *testing.T) {
	src := buildDocx(t,
		`<w:p><w:r><w:t>call 555-1234</w:t></w:r><w:ins><w:r><w:t>or 555-9876</w:t></w:r></w:ins></w:p>`+
			`<w:p><w:r><w:t></w:t></w:r><w:r><w:t>plain</w:t></w:r></w:p>`)
	out, recs, err := DOCX{}.Redact(src, digits())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "555-1234", recs[0].OriginalText)
	assert.Equal(t, "555-9876", recs[1].OriginalText)

	doc, err := docx.Open(out)
	require.NoError(t, err)
	p := doc.Paragraphs[0]
	assert.Equal(t, "call [REDACTED:tok1]", p.Children[0].(*docx.Run).Texts[0].Value())
	assert.Equal(t, "or [REDACTED:tok2]", p.Children[1].(*docx.Insert).Runs[0].Texts[0].Value())
	assert.Equal(t, "plain", doc.Paragraphs[1].Children[1].(*docx.Run).Texts[0].Value())
}

func TestDOCX_NotAZip(t *testing.T) {
	_, _, err := DOCX{}.Redact([]byte("plain text"), digits())
	assert.True(t, errors.Is(err, types.ErrDocumentLoad))
}

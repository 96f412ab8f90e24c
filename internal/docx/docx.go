package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DocumentPart is the main body part of a WordprocessingML package.
const DocumentPart = "word/document.xml"

var (
	wordNamespaces = map[string]bool{
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main": true,
		"http://purl.oclc.org/ooxml/wordprocessingml/main":             true,
	}

	// ErrMissingPart is returned when the package has no main document part.
	ErrMissingPart = errors.New("docx: " + DocumentPart + " not found")
)

// Document is an opened DOCX package. Only the main document part is
// parsed; every other part is carried through unchanged.
type Document struct {
	zr         *zip.Reader
	xml        []byte
	Paragraphs []*Paragraph
	texts      []*Text
}

// Paragraph is a body-level w:p.
type Paragraph struct {
	Children []Child
}

// Child is a paragraph child that can carry text: *Run or *Insert.
type Child interface {
	isChild()
}

// Run is a w:r with its w:t elements.
type Run struct {
	Texts []*Text
}

// Insert is a tracked insertion, w:ins, holding runs.
type Insert struct {
	Runs []*Run
}

func (*Run) isChild()    {}
func (*Insert) isChild() {}

// Text is the content of one w:t element. start and end delimit the raw
// (escaped) content in the part.
type Text struct {
	value       string
	start, end  int
	changed     bool
	selfClosing bool
}

// Value returns the unescaped text.
func (t *Text) Value() string { return t.value }

// Set replaces the text. A self-closing <w:t/> has no content to replace
// and is left alone.
func (t *Text) Set(s string) {
	if s == t.value || t.selfClosing {
		return
	}
	t.value = s
	t.changed = true
}

// Open reads a DOCX package from memory.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open zip: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == DocumentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, ErrMissingPart
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: open %s: %w", DocumentPart, err)
	}
	raw, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return nil, fmt.Errorf("docx: read %s: %w", DocumentPart, err)
	}
	d := &Document{zr: zr, xml: raw}
	if err := d.parse(); err != nil {
		return nil, fmt.Errorf("docx: parse %s: %w", DocumentPart, err)
	}
	return d, nil
}

type frameKind int

const (
	frameOther frameKind = iota
	frameDocument
	frameBody
	frameParagraph
	frameInsert
	frameRun
	frameText
)

type frame struct {
	kind frameKind
	para *Paragraph
	ins  *Insert
	run  *Run
	text *Text
	buf  strings.Builder
}

func (d *Document) parse() error {
	dec := xml.NewDecoder(bytes.NewReader(d.xml))
	var stack []*frame
	top := func() *frame {
		if len(stack) == 0 {
			return &frame{}
		}
		return stack[len(stack)-1]
	}
	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			parent := top()
			f := &frame{kind: frameOther}
			if wordNamespaces[el.Name.Space] {
				switch {
				case el.Name.Local == "document" && len(stack) == 0:
					f.kind = frameDocument
				case el.Name.Local == "body" && parent.kind == frameDocument:
					f.kind = frameBody
				case el.Name.Local == "p" && parent.kind == frameBody:
					f.kind, f.para = frameParagraph, &Paragraph{}
					d.Paragraphs = append(d.Paragraphs, f.para)
				case el.Name.Local == "r" && parent.kind == frameParagraph:
					f.kind, f.run = frameRun, &Run{}
					parent.para.Children = append(parent.para.Children, f.run)
				case el.Name.Local == "ins" && parent.kind == frameParagraph:
					f.kind, f.ins = frameInsert, &Insert{}
					parent.para.Children = append(parent.para.Children, f.ins)
				case el.Name.Local == "r" && parent.kind == frameInsert:
					f.kind, f.run = frameRun, &Run{}
					parent.ins.Runs = append(parent.ins.Runs, f.run)
				case el.Name.Local == "t" && parent.kind == frameRun:
					f.kind, f.text = frameText, &Text{start: int(dec.InputOffset())}
					parent.run.Texts = append(parent.run.Texts, f.text)
				}
			}
			stack = append(stack, f)
		case xml.CharData:
			if f := top(); f.kind == frameText {
				f.buf.Write(el)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return fmt.Errorf("unbalanced end element %s", el.Name.Local)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.kind == frameText {
				f.text.end = int(before)
				if f.text.end == f.text.start && bytes.HasSuffix(d.xml[:f.text.start], []byte("/>")) {
					f.text.selfClosing = true
				}
				f.text.value = f.buf.String()
				d.texts = append(d.texts, f.text)
			}
		}
	}
}

// Bytes re-packs the package. Parts other than the main document are copied
// without recompression; in the main document only changed text content is
// rewritten.
func (d *Document) Bytes() ([]byte, error) {
	part, err := d.documentXML()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range d.zr.File {
		if f.Name != DocumentPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("docx: copy %s: %w", f.Name, err)
			}
			continue
		}
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", f.Name, err)
		}
		if _, err := w.Write(part); err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: finish zip: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) documentXML() ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(d.xml))
	last := 0
	for _, t := range d.texts {
		if !t.changed {
			continue
		}
		out.Write(d.xml[last:t.start])
		if err := xml.EscapeText(&out, []byte(t.value)); err != nil {
			return nil, err
		}
		last = t.end
	}
	out.Write(d.xml[last:])
	return out.Bytes(), nil
}

package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrMalformed reports a document or content stream that could not be read.
	ErrMalformed = errors.New("malformed pdf")
	// ErrEncrypted is returned for documents with an /Encrypt dictionary.
	ErrEncrypted = errors.New("encrypted pdf not supported")
	// ErrPageNotFound reports a page tree node that does not resolve.
	ErrPageNotFound = errors.New("page not found")
)

var disableConfigDir sync.Once

// configuration returns a relaxed pdfcpu configuration that never touches
// the user's config directory.
func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Document is a loaded PDF whose page content can be replaced before it is
// written back.
type Document struct {
	ctx *model.Context
}

// Page is one leaf of the page tree. Dict is the live page dictionary and
// Resources the nearest resource dictionary on the way down to it.
type Page struct {
	Number    int
	Dict      types.Dict
	Resources types.Dict
}

// Load reads and validates data.
func Load(data []byte) (*Document, error) {
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), configuration())
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return nil, ErrEncrypted
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if ctx.XRefTable.Encrypt != nil {
		return nil, ErrEncrypted
	}
	if err := ctx.XRefTable.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &Document{ctx: ctx}, nil
}

// Pages returns the pages in document order.
func (d *Document) Pages() ([]Page, error) {
	x := d.ctx.XRefTable
	pages := make([]Page, 0, x.PageCount)
	for nr := 1; nr <= x.PageCount; nr++ {
		dict, _, attrs, err := x.PageDict(nr, false)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrPageNotFound, nr, err)
		}
		p := Page{Number: nr, Dict: dict}
		if attrs != nil {
			p.Resources = attrs.Resources
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// PageFonts maps the font resource names of p to their subtype and declared
// encoding. Fonts that do not resolve to a dictionary are left out.
func (d *Document) PageFonts(p Page) map[string]Font {
	x := d.ctx.XRefTable
	fonts := map[string]Font{}
	o, ok := p.Resources.Find("Font")
	if !ok {
		return fonts
	}
	dict, err := x.DereferenceDict(o)
	if err != nil || dict == nil {
		return fonts
	}
	for name, ref := range dict {
		fd, err := x.DereferenceDict(ref)
		if err != nil || fd == nil {
			continue
		}
		var f Font
		if s := fd.Subtype(); s != nil {
			f.Subtype = *s
		}
		f.Encoding = d.fontEncoding(fd)
		fonts[name] = f
	}
	return fonts
}

// fontEncoding returns the /Encoding name, or the /BaseEncoding of an
// encoding dictionary.
func (d *Document) fontEncoding(fd types.Dict) string {
	o, err := d.ctx.XRefTable.Dereference(fd["Encoding"])
	if err != nil {
		return ""
	}
	switch v := o.(type) {
	case types.Name:
		return v.Value()
	case types.Dict:
		if n := v.NameEntry("BaseEncoding"); n != nil {
			return *n
		}
	}
	return ""
}

// PageContent returns the decoded content of p. Content split across an
// array of streams is joined with newlines. A page without /Contents has
// no content.
func (d *Document) PageContent(p Page) ([]byte, error) {
	x := d.ctx.XRefTable
	o, found := p.Dict.Find("Contents")
	if !found {
		return nil, nil
	}
	o, err := x.Dereference(o)
	if err != nil {
		return nil, fmt.Errorf("%w: contents: %w", ErrMalformed, err)
	}

	var parts []types.Object
	switch v := o.(type) {
	case nil:
		return nil, nil
	case types.StreamDict:
		parts = []types.Object{v}
	case types.Array:
		parts = v
	default:
		return nil, fmt.Errorf("%w: contents is %T", ErrMalformed, o)
	}

	var buf bytes.Buffer
	for i, part := range parts {
		sd, _, err := x.DereferenceStreamDict(part)
		if err != nil {
			return nil, fmt.Errorf("%w: contents: %w", ErrMalformed, err)
		}
		if sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("%w: contents: %w", ErrMalformed, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(sd.Content)
	}
	return buf.Bytes(), nil
}

// SetPageContent replaces the content of p with a single new stream. The
// old streams are dropped on write once nothing references them.
func (d *Document) SetPageContent(p Page, content []byte) error {
	x := d.ctx.XRefTable
	sd, err := x.NewStreamDictForBuf(content)
	if err != nil {
		return err
	}
	if err := sd.Encode(); err != nil {
		return err
	}
	ir, err := x.IndRefForNewObject(*sd)
	if err != nil {
		return err
	}
	p.Dict["Contents"] = *ir
	return nil
}

// Bytes writes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package adapter

import (
	"errors"
	"fmt"

	pdfobj "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/redactyl/docredact/internal/pdf"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
)

// PDF rewrites the string operands of text-showing operators page by page.
// Each string is decoded with the codec of the font selected by the last Tf,
// redacted on its own, and encoded back with the same codec. Text split
// across operands (kerning in TJ arrays, separate Tj calls) is matched per
// operand only. Text shown with composite (Type0) fonts is left untouched.
type PDF struct{}

func (PDF) Format() types.Format { return types.FormatPDF }

func (PDF) Redact(src []byte, r *redact.Redactor) ([]byte, []types.RevealRecord, error) {
	doc, err := pdf.Load(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrDocumentLoad, err)
	}
	pages, err := doc.Pages()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrDocumentPage, err)
	}

	var records []types.RevealRecord
	for _, page := range pages {
		recs, err := redactPage(doc, page, r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: page %d: %w", types.ErrDocumentPage, page.Number, err)
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return src, nil, nil
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrDocumentWrite, err)
	}
	return out, records, nil
}

func redactPage(doc *pdf.Document, page pdf.Page, r *redact.Redactor) ([]types.RevealRecord, error) {
	content, err := doc.PageContent(page)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}
	ins, err := pdf.ParseContent(content)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	records, err := rewriteText(ins, doc.PageFonts(page), r)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	if err := doc.SetPageContent(page, pdf.EncodeContent(ins)); err != nil {
		return nil, err
	}
	return records, nil
}

// rewriteText redacts the text operands of ins in place.
func rewriteText(ins []pdf.Instruction, fonts map[string]pdf.Font, r *redact.Redactor) ([]types.RevealRecord, error) {
	// Fonts missing from the resources fall back to Latin-1.
	codec, ok := pdf.CodecFor(""), true
	var records []types.RevealRecord
	rewrite := func(o pdfobj.Object) pdfobj.Object {
		if !ok {
			return o
		}
		out, recs := redactOperand(o, codec, r)
		records = append(records, recs...)
		return out
	}

	for i := range ins {
		op := &ins[i]
		switch op.Operator {
		case "Tf":
			if len(op.Operands) == 0 {
				return nil, errors.New("Tf without font operand")
			}
			name, isName := op.Operands[0].(pdfobj.Name)
			if !isName {
				return nil, errors.New("Tf font operand is not a name")
			}
			codec, ok = pdf.CodecFor(""), true
			if font, found := fonts[name.Value()]; found {
				codec, ok = font.Codec()
			}
		case "Tj", "'":
			if len(op.Operands) > 0 {
				last := len(op.Operands) - 1
				op.Operands[last] = rewrite(op.Operands[last])
			}
		case "TJ":
			if len(op.Operands) > 0 {
				op.Operands[0] = rewrite(op.Operands[0])
			}
		case "\"":
			if len(op.Operands) > 2 {
				op.Operands[2] = rewrite(op.Operands[2])
			}
		}
	}
	return records, nil
}

// redactOperand redacts a string operand, recursing into arrays. Operands
// without a match come back unchanged.
func redactOperand(o pdfobj.Object, codec pdf.Codec, r *redact.Redactor) (pdfobj.Object, []types.RevealRecord) {
	if b, isString := pdf.StringBytes(o); isString {
		res := r.Redact(codec.Decode(b))
		if len(res.Records) == 0 {
			return o, nil
		}
		return pdf.ReplaceString(o, codec.Encode(res.Output)), res.Records
	}
	arr, isArray := o.(pdfobj.Array)
	if !isArray {
		return o, nil
	}
	var records []types.RevealRecord
	out := make(pdfobj.Array, len(arr))
	for i, e := range arr {
		ne, recs := redactOperand(e, codec, r)
		out[i] = ne
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return o, nil
	}
	return out, records
}

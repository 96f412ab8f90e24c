package adapter

import (
	"fmt"

	"github.com/redactyl/docredact/internal/docx"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
)

// DOCX redacts every run text of the body paragraphs, including runs inside
// tracked insertions. Each text element is redacted on its own.
type DOCX struct{}

func (DOCX) Format() types.Format { return types.FormatDOCX }

func (DOCX) Redact(src []byte, r *redact.Redactor) ([]byte, []types.RevealRecord, error) {
	doc, err := docx.Open(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrDocumentLoad, err)
	}

	var records []types.RevealRecord
	redactRun := func(run *docx.Run) {
		for _, t := range run.Texts {
			if t.Value() == "" {
				continue
			}
			res := r.Redact(t.Value())
			if len(res.Records) == 0 {
				continue
			}
			t.Set(res.Output)
			records = append(records, res.Records...)
		}
	}
	for _, p := range doc.Paragraphs {
		for _, c := range p.Children {
			switch c := c.(type) {
			case *docx.Run:
				redactRun(c)
			case *docx.Insert:
				for _, run := range c.Runs {
					redactRun(run)
				}
			}
		}
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", types.ErrDocumentWrite, err)
	}
	return out, records, nil
}

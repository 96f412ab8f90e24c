package adapter

import (
	"fmt"

	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
)

// Adapter exposes the text of one document format to the redaction engine
// and writes the edited text back. Implementations hold no state; a document
// is loaded, edited and serialized within one Redact call.
type Adapter interface {
	Format() types.Format
	// Redact returns the redacted document bytes and the records of every
	// replacement, in the order they were made. On error no bytes are
	// returned.
	Redact(src []byte, r *redact.Redactor) ([]byte, []types.RevealRecord, error)
}

// For returns the adapter for f.
func For(f types.Format) (Adapter, error) {
	switch f {
	case types.FormatText:
		return Text{}, nil
	case types.FormatPDF:
		return PDF{}, nil
	case types.FormatDOCX:
		return DOCX{}, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, f)
}

// Text treats the whole file as one string.
type Text struct{}

func (Text) Format() types.Format { return types.FormatText }

func (Text) Redact(src []byte, r *redact.Redactor) ([]byte, []types.RevealRecord, error) {
	res := r.Redact(string(src))
	return []byte(res.Output), res.Records, nil
}

package core

import (
	"encoding/json"
	"io"

	"github.com/redactyl/docredact/internal/manifest"
)

// MarshalRecords writes records in the reveal manifest format.
func MarshalRecords(w io.Writer, records []RevealRecord) error {
	b, err := manifest.Encode(records)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// UnmarshalRecords decodes a reveal manifest.
func UnmarshalRecords(r io.Reader) ([]RevealRecord, error) {
	var recs []RevealRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Package core provides a small, stable facade over docredact's internal
// packages for programs that embed redaction. It re-exports a narrow API
// surface so callers can depend on a stable import path without reaching
// into internal implementation packages.
//
// Example:
//
//	p, err := core.Resolve("", []string{"email", "phone"})
//	if err != nil { /* handle */ }
//	res := core.RedactText(p.Redactor, "mail bob@example.com")
//	_ = core.MarshalRecords(os.Stdout, res.Records)
package core

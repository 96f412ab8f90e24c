// Package pdf rewrites text in PDF page content streams.
//
// Documents are read, validated and written with pdfcpu. This package adds
// what pdfcpu does not export: a content stream tokenizer, page content
// joined across stream arrays, font encoding lookup, and single-byte codecs
// for the string operands of simple fonts. Encrypted documents are not
// supported.
package pdf

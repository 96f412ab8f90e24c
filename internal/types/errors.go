package types

import "errors"

// Error kinds. Callers wrap a cause with one of these using
// fmt.Errorf("%w: ...: %w", kind, cause) and test with errors.Is.
var (
	// ErrCatalog: the pattern catalog is unreadable, malformed or the request is empty.
	ErrCatalog = errors.New("catalog error")
	// ErrPatternCompile: a catalog regex failed to compile. Always fatal.
	ErrPatternCompile = errors.New("pattern compile error")
	// ErrUnsupportedFormat: the file extension selects no document adapter.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDocumentLoad: the source document could not be read or parsed.
	ErrDocumentLoad = errors.New("document load error")
	// ErrDocumentPage: a PDF page, its content or a font operand is missing or unreadable.
	ErrDocumentPage = errors.New("document page error")
	// ErrDocumentWrite: the redacted document or its manifest could not be persisted.
	ErrDocumentWrite = errors.New("document write error")
	// ErrDirectoryRead: a directory or one of its entries could not be read (soft).
	ErrDirectoryRead = errors.New("directory read error")
	// ErrOutputDirCreate: the output folder could not be created.
	ErrOutputDirCreate = errors.New("output directory create error")
)

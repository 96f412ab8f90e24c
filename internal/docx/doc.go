// Package docx exposes the text runs of a WordprocessingML package for in
// place editing. Body paragraphs, their runs and the runs of tracked
// insertions are visited; tables, headers and other parts are not.
package docx

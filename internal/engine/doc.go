// Package engine schedules folder redaction. It visits directories breadth
// first from a root, writes each directory's outputs into a sibling
// "redacted" folder, and runs the per-file jobs of a directory through a
// bounded worker pool. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine

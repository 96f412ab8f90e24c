// Package catalog loads the pattern catalog and resolves requested category
// names into an ordered list of compiled patterns. A pattern that fails to
// compile is always an error; a requested category that matches nothing is
// reported back to the caller instead.
package catalog

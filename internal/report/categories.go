package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/docredact/internal/catalog"
)

// PrintCategories writes the catalog categories as a table.
func PrintCategories(w io.Writer, source string, cats []catalog.CategoryInfo) error {
	if len(cats) == 0 {
		fmt.Fprintf(w, "No categories in %s\n", source)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("CATEGORY", "PATTERNS")
	for _, c := range cats {
		if err := table.Append([]string{c.Name, strconv.Itoa(c.Patterns)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Catalog: %s\n", source)
	return nil
}

// WriteCategoriesJSON writes {"catalog": ..., "categories": [...]}.
func WriteCategoriesJSON(w io.Writer, source string, cats []catalog.CategoryInfo) error {
	if cats == nil {
		cats = []catalog.CategoryInfo{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Catalog    string                 `json:"catalog"`
		Categories []catalog.CategoryInfo `json:"categories"`
	}{source, cats})
}

package docredact

import (
	"github.com/redactyl/docredact/internal/catalog"
	"github.com/redactyl/docredact/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories in the pattern catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := loadSettings(cmd, ".")
			cat, src, err := catalog.Open(s.layers.Catalog(flagCatalog))
			if err != nil {
				return err
			}
			if flagJSON {
				return report.WriteCategoriesJSON(cmd.OutOrStdout(), src, cat.Categories())
			}
			return report.PrintCategories(cmd.OutOrStdout(), src, cat.Categories())
		},
	}
	rootCmd.AddCommand(cmd)
}

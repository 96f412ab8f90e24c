package docredact

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update docredact to the latest GitHub release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			latest, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "docredact is at v%s\n", latest)
			return err
		},
	}
	rootCmd.AddCommand(cmd)
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ontoenv/internal/app"
)

func (c *CLI) newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Bring the index in line with the files on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			remote, _ := cmd.Flags().GetBool("remote")
			report, err := c.app.Refresh(cmd.Context(), c.openOptions(cmd), app.RefreshOptions{Remote: remote})
			printSummary(cmd.OutOrStdout(), report)
			return err
		},
	}
	cmd.Flags().Bool("remote", false, "Also revalidate cached remote ontologies with their origin")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ontoenv/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh the index whenever ontology files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), c.openOptions(cmd), func(report *app.RefreshReport, err error) {
				if err == nil {
					printSummary(cmd.OutOrStdout(), report)
				}
			})
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Build the ontology index of a directory from scratch",
		Long: `Scan every ontology file below the root, index the ontologies they declare and
fetch their remote imports into the document cache. Any previous index is replaced.
Without --root the current directory is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Init(cmd.Context(), c.openOptions(cmd))
			printSummary(cmd.OutOrStdout(), report)
			return err
		},
	}
}

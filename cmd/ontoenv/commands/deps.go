package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ontoenv/internal/engine/tree"
	"go.trai.ch/ontoenv/internal/ui/output"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	var dot bool
	cmd := &cobra.Command{
		Use:   "deps [file-or-uri]",
		Short: "Print the import tree of an ontology",
		Long: `Print the imports of an ontology as a tree. The argument is an ontology URI or a
file whose declared ontologies become the roots. Without an argument every indexed
ontology that nothing imports is printed.

An ontology already printed in full appears again as a bold leaf marked [dup].
[cycle] marks an import back to an ancestor and [unresolved] an import that could
not be found. With --dot the import graph is written in Graphviz DOT syntax instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			forest, err := c.app.Deps(cmd.Context(), c.openOptions(cmd), target)
			if err != nil {
				return err
			}
			if dot {
				return tree.WriteDOT(cmd.OutOrStdout(), forest)
			}
			return tree.Render(output.New(cmd.OutOrStdout()), forest)
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "Write the import graph in Graphviz DOT syntax")
	return cmd
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/ontoenv/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file>",
		Short: "Merge a document with everything it imports",
		Long: `Parse a document, resolve its imports and print the combined graph as sorted
N-Triples. The document's own ontology is not resolved again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			depth, _ := cmd.Flags().GetInt("depth")

			outcome, err := c.app.Merge(cmd.Context(), c.openOptions(cmd), args[0], app.MergeOptions{Depth: depth})
			if err != nil {
				return err
			}

			if out == "" {
				return outcome.Graph.WriteNTriples(cmd.OutOrStdout())
			}

			f, err := os.Create(out) //nolint:gosec // Output path is chosen by the user
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create output file"), "path", out)
			}
			if err := outcome.Graph.WriteNTriples(f); err != nil {
				_ = f.Close()
				return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", out)
			}
			if err := f.Close(); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "merged %d ontologies into %s (%d triples)\n",
				len(outcome.Report.Merged), out, outcome.Graph.Len())
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the merged graph to a file instead of stdout")
	cmd.Flags().Int("depth", 0, "Merge only this many import levels (0 merges everything)")
	return cmd
}

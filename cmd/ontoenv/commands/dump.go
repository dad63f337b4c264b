package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "List every indexed ontology and where it is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			records, err := c.app.Dump(cmd.Context(), c.openOptions(cmd))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, rec := range records {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.URI, rec.Location.Kind, rec.Location)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print the records as JSON")
	return cmd
}

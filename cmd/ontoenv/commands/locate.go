package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <uri>",
		Short: "Print where an ontology is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.app.Locate(cmd.Context(), c.openOptions(cmd), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), loc.String())
			return err
		},
	}
}

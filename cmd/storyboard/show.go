package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

func newShowCmd(c *cli) *cobra.Command {
	var showJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note card as it is drawn on the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}

			svc, err := c.openBoard(cmd.Context(), storyboard.WithReadOnly(true))
			if err != nil {
				return err
			}
			n, err := svc.Note(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(newNoteView(n))
			}

			fmt.Fprint(out, n.DisplayText())
			fmt.Fprintf(out, "\nPosition: (%g, %g)  Color: %s\n", n.Position.X, n.Position.Y, n.Color.Hex())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	return cmd
}

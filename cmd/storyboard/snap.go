package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "snap [id]",
		Short: "Snap one note card, or every card, to the grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}

			count := len(svc.Notes())
			if len(args) == 1 {
				count = 1
				id, err := parseNoteID(args[0])
				if err != nil {
					return err
				}
				if err := svc.SnapNote(id); err != nil {
					return err
				}
			} else {
				svc.SnapAll()
			}

			if err := svc.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapped %d note(s) to the grid\n", count)
			return nil
		},
	}
}


package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMoveCmd(c *cli) *cobra.Command {
	var (
		dx, dy float64
		snap   bool
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a note card by an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}

			svc, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.MoveNoteOnScreen(id, dx, dy); err != nil {
				return err
			}
			if snap {
				if err := svc.SnapNote(id); err != nil {
					return err
				}
			}
			if err := svc.Save(cmd.Context()); err != nil {
				return err
			}

			n, err := svc.Note(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved note %d to (%g, %g)\n", n.ID, n.Position.X, n.Position.Y)
			return nil
		},
	}

	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal offset")
	cmd.Flags().Float64Var(&dy, "dy", 0, "Vertical offset")
	cmd.Flags().BoolVar(&snap, "snap", false, "Snap to the grid after moving, as a drag release does")
	return cmd
}

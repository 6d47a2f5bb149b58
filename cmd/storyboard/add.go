package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

func newAddCmd(c *cli) *cobra.Command {
	var (
		x, y float64
		tag  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note card at a board position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}

			t := storyboard.Tag(tag)
			if t == "" {
				t = svc.Palette().Default()
			}
			note, err := svc.CreateNote(storyboard.Point{X: x, Y: y}, t)
			if err != nil {
				return err
			}
			if err := svc.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added note %d at (%g, %g) [%s]\n", note.ID, note.Position.X, note.Position.Y, note.Tag)
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Y position")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Category tag (default: the palette default)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

func newEditCmd(c *cli) *cobra.Command {
	var (
		title   string
		bullets []string
		tag     string
		color   string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the content, tag or color of a note card",
		Long: `Edit a note card. Fields without a flag keep their current value.
Every edit without --color resets the color to the tag color, including a
color picked by an earlier edit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}

			var picked *storyboard.Color
			if cmd.Flags().Changed("color") {
				col, err := storyboard.ParseColor(color)
				if err != nil {
					return err
				}
				picked = &col
			}

			svc, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}

			err = svc.Edit(id, func(s *storyboard.EditSession) error {
				n := s.Note()
				newTitle, newBullets, newTag := n.Title, n.Bullets, n.Tag
				if cmd.Flags().Changed("title") {
					newTitle = title
				}
				if cmd.Flags().Changed("bullet") {
					newBullets = bullets
				}
				if cmd.Flags().Changed("tag") {
					newTag = storyboard.Tag(tag)
				}
				if picked != nil {
					s.PickColor(*picked)
				}
				return s.Save(newTitle, newBullets, newTag)
			})
			if err != nil {
				return err
			}
			if err := svc.Save(cmd.Context()); err != nil {
				return err
			}

			n, err := svc.Note(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d: %s [%s] %s\n", n.ID, n.Title, n.Tag, n.Color.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title (may be empty)")
	cmd.Flags().StringArrayVar(&bullets, "bullet", nil, "Bullet point; repeat for several (replaces all bullets)")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "New category tag")
	cmd.Flags().StringVar(&color, "color", "", "Custom color as #rrggbb")
	return cmd
}

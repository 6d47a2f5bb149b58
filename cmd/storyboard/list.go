package main

import (
	"encoding/json"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

// noteView is the JSON shape of a note in command output.
type noteView struct {
	ID      int      `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Tag     string   `json:"tag"`
	Color   string   `json:"color"`
	Words   int      `json:"words"`
}

func newNoteView(n *storyboard.Note) noteView {
	bullets := n.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	return noteView{
		ID:      int(n.ID),
		X:       n.Position.X,
		Y:       n.Position.Y,
		Width:   n.Size.Width,
		Height:  n.Size.Height,
		Title:   n.Title,
		Bullets: bullets,
		Tag:     string(n.Tag),
		Color:   n.Color.Hex(),
		Words:   n.WordCount(),
	}
}

func newListCmd(c *cli) *cobra.Command {
	var (
		listJSON    bool
		filterTag   string
		filterTitle string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the note cards on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filterTitle != "" && !doublestar.ValidatePattern(filterTitle) {
				return fmt.Errorf("invalid title pattern %q", filterTitle)
			}

			svc, err := c.openBoard(cmd.Context(), storyboard.WithReadOnly(true))
			if err != nil {
				return err
			}

			views := []noteView{}
			for _, n := range svc.Notes() {
				if filterTag != "" && string(n.Tag) != filterTag {
					continue
				}
				if filterTitle != "" {
					if ok, _ := doublestar.Match(filterTitle, n.Title); !ok {
						continue
					}
				}
				views = append(views, newNoteView(n))
			}

			out := cmd.OutOrStdout()
			if listJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			if len(views) == 0 {
				fmt.Fprintln(out, "No notes found.")
				return nil
			}
			for _, v := range views {
				fmt.Fprintf(out, "%d\t%-10s\t(%g, %g)\t%s\n", v.ID, v.Tag, v.X, v.Y, v.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&filterTag, "tag", "t", "", "Only notes with this tag")
	cmd.Flags().StringVar(&filterTitle, "title", "", "Only notes whose title matches this glob (e.g. 'Act 1*')")
	return cmd
}

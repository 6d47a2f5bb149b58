package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

// Zoom control limits, in percent.
const (
	minZoomPercent = 50
	maxZoomPercent = 200
)

func clampZoom(percent float64) float64 {
	switch {
	case percent < minZoomPercent:
		return minZoomPercent
	case percent > maxZoomPercent:
		return maxZoomPercent
	default:
		return percent
	}
}

func newRenderCmd(c *cli) *cobra.Command {
	var zoom, pivotX, pivotY float64

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print where each note card is drawn at a zoom level",
		Long: `Render applies a zoom around a screen pivot and prints the screen
rectangle of every card. The zoom is clamped to 50-200%. Card positions in
the document are not changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.openBoard(cmd.Context(), storyboard.WithReadOnly(true))
			if err != nil {
				return err
			}

			percent := clampZoom(zoom)
			if err := svc.ApplyZoom(percent/100, storyboard.Point{X: pivotX, Y: pivotY}); err != nil {
				return err
			}

			v := svc.Viewport()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zoom: %d%%\n", v.Percent())
			for _, n := range svc.Notes() {
				r := v.ScreenRect(n.Bounds())
				fmt.Fprintf(out, "%d\t%s\tx=%g y=%g w=%g h=%g\n", n.ID, n.Title, r.Min.X, r.Min.Y, r.Size.Width, r.Size.Height)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&zoom, "zoom", 100, "Zoom level in percent (50-200)")
	cmd.Flags().Float64Var(&pivotX, "pivot-x", 0, "Screen X of the zoom pivot")
	cmd.Flags().Float64Var(&pivotY, "pivot-y", 0, "Screen Y of the zoom pivot")
	return cmd
}

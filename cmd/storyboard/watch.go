package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
	"github.com/aretw0/storyboard/pkg/adapters/lifecycle"
)

func newWatchCmd(c *cli) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the board whenever its document changes on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := c.openBoard(ctx, storyboard.WithWatchDebounce(debounce))
			if err != nil {
				return err
			}
			events, err := svc.Watch(ctx)
			if err != nil {
				return err
			}

			src := lifecycle.NewSource(events)
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching board (%d notes). Press Ctrl+C to stop.\n", len(svc.Notes()))
			for ev := range src.Events() {
				r, ok := ev.(lifecycle.Reload)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%s: reloaded %d notes\n", r.At.Format(time.TimeOnly), r.Notes)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 50*time.Millisecond, "Coalescing window for file change bursts")
	return cmd
}

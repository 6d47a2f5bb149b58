package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyboard"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a board in the current directory",
		Long: `Initialize a new board. Writes storyboard.yaml when no config exists
and an empty board document when none exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.boardDir
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				root = wd
			}

			created, err := storyboard.InitBoard(cmd.Context(), root, c.options()...)
			if err != nil {
				return fmt.Errorf("failed to initialize board: %w", err)
			}

			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Initialized empty board in", root)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Board already exists in", root)
			}
			return nil
		},
	}
}

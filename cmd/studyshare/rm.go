package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/core"
)

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Remove notes",
		Long:    `Remove notes by ID. Unknown IDs are reported and skipped.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, id := range args {
				removed, err := c.notes.RemoveNote(cmd.Context(), id)
				switch {
				case errors.Is(err, core.ErrStorage):
					a.logger.Warn("note removed but not saved", "id", id, "error", err)
				case err != nil:
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Not found %s\n", id)
				}
			}
			return nil
		},
	}
}

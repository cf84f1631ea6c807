package main

import (
	"fmt"

	"github.com/spf13/cobra"

	adapter "github.com/aretw0/studyshare/pkg/adapters/lifecycle"
	"github.com/aretw0/studyshare/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the catalog whenever its storage changes",
		Long: `Watch the storage for changes made by other processes and print the note count
after every change. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := a.open(ctx, false)
			if err != nil {
				return err
			}
			defer c.Close()

			watchable, ok := c.backend.(core.Watchable)
			if !ok {
				return fmt.Errorf("storage %T does not support watching", c.backend)
			}
			events, err := watchable.Watch(ctx, pattern)
			if err != nil {
				return err
			}

			source := adapter.NewSource(events)
			if err := source.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (%d notes)\n", a.root, c.notes.Len())
			for e := range source.Events() {
				c.notes.Reload(ctx)
				fmt.Fprintf(out, "%s: %d notes\n", e, c.notes.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "*", "Storage keys to watch (glob)")
	return cmd
}

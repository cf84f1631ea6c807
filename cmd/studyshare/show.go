package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/core"
	"github.com/aretw0/studyshare/pkg/export"
)

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			note, ok := c.notes.Get(args[0])
			if !ok {
				return fmt.Errorf("note %s: %w", args[0], core.ErrNotFound)
			}

			if asJSON {
				return export.Write(cmd.OutOrStdout(), export.FormatJSON, []core.Note{note})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", note.ID)
			fmt.Fprintf(out, "Title:     %s\n", note.Title)
			fmt.Fprintf(out, "Class:     %s\n", core.ClassDisplayName(note.Class))
			fmt.Fprintf(out, "Tags:      %s\n", strings.Join(note.Tags, ", "))
			fmt.Fprintf(out, "Created:   %s\n", note.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "File:      %s\n", note.FileName)
			fmt.Fprintf(out, "Download:  %s\n", core.DownloadName(note))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

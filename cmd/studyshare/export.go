package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/core"
	"github.com/aretw0/studyshare/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format   string
		output   string
		sortMode string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export note metadata as JSON, YAML or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			notes := core.Apply(c.notes.Snapshot(), core.Query{
				Sort:   core.ParseSortMode(sortMode),
				Locale: a.cfg.Locale,
			})

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), f, notes)
			}

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.Write(file, f, notes); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d notes to %s\n", len(notes), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Output format: json, yaml or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&sortMode, "sort", string(core.SortDateDesc), "Sort order of the exported notes")
	return cmd
}

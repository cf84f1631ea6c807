package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/convert"
)

func newImportCmd(a *app) *cobra.Command {
	var flags noteFlags

	cmd := &cobra.Command{
		Use:   "import <pattern>...",
		Short: "Add a note for every image or PDF matching the patterns",
		Long: `Add a note for every image or PDF matching the glob patterns (e.g. "scans/**/*.pdf").
The title is the file name without extension. Other file types are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			for _, pattern := range args {
				matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
				if err != nil {
					return fmt.Errorf("invalid pattern %q: %w", pattern, err)
				}
				paths = append(paths, matches...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			conv := a.converter(&flags)
			var added, skipped int
			for _, path := range paths {
				file, err := readFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				if !convert.Accepts(*file) {
					a.logger.Warn("skipping unsupported file", "path", path, "type", convert.DetectMIME(*file))
					skipped++
					continue
				}

				title := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
				note, err := a.addFile(cmd.Context(), c, conv, convert.PrepareRequest{
					Title: title,
					Class: flags.class,
					Tags:  flags.tags,
					File:  *file,
				})
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}
				added++
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", note.ID, note.Title)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes, skipped %d files\n", added, skipped)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

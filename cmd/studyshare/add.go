package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/convert"
	"github.com/aretw0/studyshare/pkg/core"
)

// noteFlags are the metadata flags shared by add and import.
type noteFlags struct {
	class          string
	tags           string
	thumbnailWidth int
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.class, "class", "", "Subject class (see 'studyshare classes')")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().IntVar(&f.thumbnailWidth, "thumbnail-width", 0, "Downscale generated thumbnails to this width (0 keeps the full image)")
}

func (a *app) converter(f *noteFlags) *convert.DefaultConverter {
	width := a.cfg.ThumbnailWidth
	if f.thumbnailWidth > 0 {
		width = f.thumbnailWidth
	}
	return convert.New(convert.WithThumbnailWidth(width), convert.WithLogger(a.logger))
}

// readFile loads a local file for conversion.
func readFile(path string) (*convert.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &convert.File{Name: filepath.Base(path), Data: data}, nil
}

// addFile converts the file at path and adds it to the collection. A storage
// failure after the note was added is reported as a warning.
func (a *app) addFile(ctx context.Context, c *catalog, conv convert.Converter, req convert.PrepareRequest) (core.Note, error) {
	in, err := convert.Prepare(ctx, conv, req)
	if err != nil {
		return core.Note{}, err
	}
	note, err := c.notes.AddNote(ctx, in)
	if err != nil {
		if errors.Is(err, core.ErrStorage) && note.ID != "" {
			a.logger.Warn("note added but not saved", "id", note.ID, "error", err)
			return note, nil
		}
		return core.Note{}, err
	}
	return note, nil
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags     noteFlags
		title     string
		thumbnail string
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a note from an image or PDF",
		Long: `Add a note from an image or PDF file. A PDF is converted to an image of its first page.
A custom thumbnail image may be given with --thumbnail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			req := convert.PrepareRequest{
				Title: title,
				Class: flags.class,
				Tags:  flags.tags,
				File:  *file,
			}
			if thumbnail != "" {
				thumb, err := readFile(thumbnail)
				if err != nil {
					return fmt.Errorf("failed to read thumbnail %s: %w", thumbnail, err)
				}
				req.Thumbnail = thumb
			}

			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			note, err := a.addFile(cmd.Context(), c, a.converter(&flags), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", note.ID, note.Title)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "Note title (required)")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Custom thumbnail image")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/core"
)

// maxRemoteImage bounds the size of a fetched remote image.
const maxRemoteImage = 32 << 20

func newDownloadCmd(a *app) *cobra.Command {
	var (
		outDir string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Save the full image of a note to a file",
		Long: `Save the full image of a note as "<title>.<ext>" in the output directory.
Embedded images are decoded; remote images are fetched over HTTP.`,
		Args: cobra.ExactArgs(1),
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

			data, err := imageBytes(cmd.Context(), note.FullImage)
			if err != nil {
				return fmt.Errorf("failed to load image of %s: %w", note.ID, err)
			}

			target := filepath.Join(outDir, core.DownloadName(note))
			flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			if !force {
				flags |= os.O_EXCL
			}
			f, err := os.OpenFile(target, flags, 0644)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			if _, err := f.Write(data); err != nil {
				f.Close()
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			a.logger.Debug("note downloaded", "id", note.ID, "path", target, "bytes", len(data))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Output directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

// imageBytes returns the content behind an image reference: a data URI or
// an http(s) URL.
func imageBytes(ctx context.Context, ref string) ([]byte, error) {
	data, _, err := core.DecodeDataURI(ref)
	if !errors.Is(err, core.ErrNotDataURI) {
		return data, err
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, fmt.Errorf("unsupported image reference %q", ref)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", ref, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteImage))
}

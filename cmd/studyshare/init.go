package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/internal/platform"
)

func newInitCmd(a *app) *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a catalog",
		Long: `Initialize a new StudyShare catalog in the catalog root (current directory by default).
Writes studyshare.yaml when missing and installs the sample notes unless --no-seed is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.root, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", a.root, err)
			}

			_, err := os.Stat(filepath.Join(a.root, platform.ConfigFileName))
			if errors.Is(err, os.ErrNotExist) {
				cfg := platform.Config{Adapter: a.cfg.Adapter}
				if noSeed {
					seed := false
					cfg.Seed = &seed
				}
				if err := platform.WriteConfig(a.root, cfg); err != nil {
					return err
				}
			}

			var opts []platform.Option
			if noSeed {
				opts = append(opts, platform.WithSeed(false))
			}
			c, err := a.open(cmd.Context(), true, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize catalog: %w", err)
			}
			defer c.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized StudyShare catalog in %s (%d notes)\n", a.root, c.notes.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Do not install the sample notes")
	return cmd
}

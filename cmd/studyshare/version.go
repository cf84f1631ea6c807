package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of studyshare",
		Args:  cobra.NoArgs,
		// Skips the catalog setup of the root command.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "studyshare version %s\n", strings.TrimSpace(studyshare.Version))
			return nil
		},
	}
}

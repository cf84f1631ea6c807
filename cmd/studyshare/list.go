package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/pkg/core"
	"github.com/aretw0/studyshare/pkg/export"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search   string
		class    string
		tags     []string
		sortMode string
		locale   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes matching the filters",
		Long: `List notes. --search matches titles and tags, --class selects one subject class and each
--tag must be contained in one of the note's tags. Repeating a --tag toggles it off again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := core.ParseSortMode(sortMode)
			if mode == core.SortNone && sortMode != "" && strings.ToLower(strings.TrimSpace(sortMode)) != string(core.SortNone) {
				return fmt.Errorf("unknown sort mode %q (want one of %v)", sortMode, core.SortModes())
			}

			filter := core.NewTagFilter()
			for _, tag := range tags {
				filter.Toggle(tag)
			}

			if locale == "" {
				locale = a.cfg.Locale
			}

			c, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			notes := core.Apply(c.notes.Snapshot(), core.Query{
				Search: search,
				Class:  class,
				Tags:   filter.Active(),
				Sort:   mode,
				Locale: locale,
			})

			if asJSON {
				return export.Write(cmd.OutOrStdout(), export.FormatJSON, notes)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCLASS\tTAGS\tDATE")
			for _, n := range notes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					n.ID, n.Title, core.ClassDisplayName(n.Class), strings.Join(n.Tags, ", "),
					n.CreatedAt.Local().Format("2006-01-02"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d notes\n", len(notes), c.notes.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search titles and tags")
	cmd.Flags().StringVar(&class, "class", "", "Only notes of this subject class")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Require a tag (repeatable)")
	cmd.Flags().StringVar(&sortMode, "sort", string(core.SortDateDesc), "Sort: none, date-asc, date-desc, name-asc or name-desc")
	cmd.Flags().StringVar(&locale, "locale", "", "Collation locale for name sorting (BCP 47)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

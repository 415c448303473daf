package main

import (
	"fmt"
	"strings"

	"vinyl-collection/internal/clientview"
	"vinyl-collection/internal/domains/record/model"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		search    string
		favorites bool
		format    string
		minYear   int
		maxYear   int
		sortKey   string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" && !strings.EqualFold(format, clientview.FormatAll) {
				parsed, ok := model.ParseFormat(format)
				if !ok {
					return fmt.Errorf("unknown format %q", format)
				}
				format = string(parsed)
			}

			filters := clientview.Filters{
				OnlyFavorites: favorites,
				Format:        format,
				Search:        strings.TrimSpace(search),
			}
			if cmd.Flags().Changed("min-year") {
				filters.MinYear = model.IntPtr(minYear)
			}
			if cmd.Flags().Changed("max-year") {
				filters.MaxYear = model.IntPtr(maxYear)
			}

			return ctx.withView(func(view *clientview.View) error {
				if cmd.Flags().Changed("sort") {
					view.SetSort(clientview.ParseSortKey(sortKey))
				}
				if err := view.SetFilters(cmd.Context(), filters); err != nil {
					return err
				}
				// an empty search leaves the snapshot unloaded
				if filters.Search == "" {
					if err := view.Load(cmd.Context()); err != nil {
						return err
					}
				}

				visible := view.Visible()
				if jsonOut {
					return writeJSON(cmd, visible)
				}

				out := cmd.OutOrStdout()
				if len(visible) == 0 {
					fmt.Fprintln(out, "No records match")
					return nil
				}
				headers, rows, aligns := recordRows(visible)
				fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
				fmt.Fprintf(out, "%d of %d records shown\n", len(visible), len(view.Snapshot()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Substring search over artist, title and notes")
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "Only show favorites")
	cmd.Flags().StringVar(&format, "format", "", "Only show this format (LP, EP, Single, CD, Cassette, Digital, Other)")
	cmd.Flags().IntVar(&minYear, "min-year", 0, "Earliest release year (inclusive)")
	cmd.Flags().IntVar(&maxYear, "max-year", 0, "Latest release year (inclusive)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by artist, title or year")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

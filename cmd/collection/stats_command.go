package main

import (
	"fmt"
	"strconv"

	"vinyl-collection/internal/clientview"
	"vinyl-collection/internal/domains/record/model"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var local bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary model.Summary
			if local {
				err := ctx.withView(func(view *clientview.View) error {
					if err := view.Load(cmd.Context()); err != nil {
						return err
					}
					summary = view.Summary()
					return nil
				})
				if err != nil {
					return err
				}
			} else {
				api, err := ctx.api()
				if err != nil {
					return err
				}
				s, err := api.Summary(cmd.Context())
				if err != nil {
					return err
				}
				summary = *s
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Stat", "Value"}, summaryRows(summary), []columnAlignment{alignLeft, alignRight}))
			if len(summary.Recent) > 0 {
				fmt.Fprintln(out, "Recently added:")
				for _, r := range summary.Recent {
					fmt.Fprintf(out, "  %s\n", describe(r))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Compute from a fetched snapshot instead of the server endpoint")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func summaryRows(s model.Summary) [][]string {
	rows := [][]string{
		{"Records", strconv.Itoa(s.Total)},
		{"Favorites", strconv.Itoa(s.Favorites)},
	}
	for _, f := range model.Formats {
		if n := s.ByFormat[f]; n > 0 {
			rows = append(rows, []string{string(f), strconv.Itoa(n)})
		}
	}
	rows = append(rows,
		[]string{"Earliest year", yearString(s.MinYear)},
		[]string{"Latest year", yearString(s.MaxYear)},
	)
	return rows
}

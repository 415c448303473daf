package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var artist, title string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Search Discogs releases through the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(artist) == "" && strings.TrimSpace(title) == "" {
				return errors.New("pass --artist and/or --title")
			}
			api, err := ctx.api()
			if err != nil {
				return err
			}
			hits, err := api.SearchCatalog(cmd.Context(), artist, title)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, hits)
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			headers := []string{"#", "Discogs ID", "Title", "Year", "Label", "Format", "Cat#"}
			aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(hits))
			for i, h := range hits {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.FormatInt(h.ID, 10),
					h.Title,
					yearString(h.Year),
					derefString(h.Label),
					derefString(h.Format),
					derefString(h.CatalogNumber),
				})
			}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Artist to search for")
	cmd.Flags().StringVar(&title, "title", "", "Release title to search for")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"vinyl-collection/internal/domains/record/model"
)

func parseIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}

func yearString(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func favoriteMark(v bool) string {
	if v {
		return "★"
	}
	return ""
}

func describe(r model.Record) string {
	return fmt.Sprintf("#%d %s - %s", r.ID, r.Artist, r.Title)
}

func recordRows(records []model.Record) ([]string, [][]string, []columnAlignment) {
	headers := []string{"ID", "Artist", "Title", "Year", "Format", "Fav", "Cat#"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Artist,
			r.Title,
			yearString(r.Year),
			string(r.Format),
			favoriteMark(r.Favorite),
			r.CatalogNumber,
		})
	}
	return headers, rows, aligns
}

func detailRows(r model.Record) [][]string {
	discogsID := ""
	if r.DiscogsID != nil {
		discogsID = strconv.FormatInt(*r.DiscogsID, 10)
	}
	return [][]string{
		{"ID", strconv.FormatInt(r.ID, 10)},
		{"Artist", r.Artist},
		{"Title", r.Title},
		{"Year", yearString(r.Year)},
		{"Format", string(r.Format)},
		{"Favorite", yesNo(r.Favorite)},
		{"Catalog #", r.CatalogNumber},
		{"Matrix", r.MatrixInfo},
		{"Condition", r.Condition},
		{"Notes", r.Notes},
		{"Discogs ID", discogsID},
		{"Discogs URL", derefString(r.DiscogsURL)},
		{"Thumb", derefString(r.Thumb)},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

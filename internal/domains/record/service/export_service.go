package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"vinyl-collection/internal/domains/record/model"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatJSON = "json"
	ExportFormatXLSX = "xlsx"

	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export writes the full, unfiltered collection in the requested format
func (s *RecordService) Export(ctx context.Context, format string, w io.Writer) (string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ExportFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return "", fmt.Errorf("encode export: %w", err)
		}
		return ContentTypeJSON, nil

	case ExportFormatXLSX:
		f, err := buildRecordsExcelFile(records)
		if err != nil {
			return "", fmt.Errorf("failed to build excel file: %w", err)
		}
		defer f.Close()
		if _, err := f.WriteTo(w); err != nil {
			return "", fmt.Errorf("write excel file: %w", err)
		}
		return ContentTypeXLSX, nil
	}

	return "", model.ErrUnsupportedExport
}

var exportHeaders = []string{
	"ID", "Artist", "Title", "Year", "Format", "Favorite", "Notes",
	"Catalog Number", "Matrix", "Condition", "Discogs ID", "Discogs URL", "Thumb",
}

func buildRecordsExcelFile(records []model.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Collection"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(sheetName, "A1", last, headerStyle)
	} else {
		log.Warn().Err(err).Msg("Failed to create header style")
	}

	for i, r := range records {
		row := []interface{}{
			r.ID, r.Artist, r.Title, optionalInt(r.Year), r.Format.String(), r.Favorite, r.Notes,
			r.CatalogNumber, r.MatrixInfo, r.Condition, optionalInt64(r.DiscogsID),
			optionalString(r.DiscogsURL), optionalString(r.Thumb),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalInt64(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "wranglecli/internal/errors"
)

// DefaultSheet is the worksheet name used when none is given
const DefaultSheet = "data"

// XLSXWriter writes tables as single-sheet workbooks
type XLSXWriter struct {
	resolve Resolver
}

// NewXLSXWriter creates a writer placing files where resolve says
func NewXLSXWriter(resolve Resolver) *XLSXWriter {
	return &XLSXWriter{resolve: resolve}
}

// WriteXLSX writes data to one worksheet of a new workbook. Cells that parse
// as numbers are stored as numbers. It returns the resolved path.
func (w *XLSXWriter) WriteXLSX(filePath, sheet string, data Tabular) (string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	fullPath := w.resolve(filePath)
	records := data.Records()

	slog.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.String("sheet", sheet),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", apperrors.NewStorageError("failed to name sheet", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create sheet writer", err)
	}

	if err := writeRow(sw, 1, data.Header(), false); err != nil {
		return "", err
	}
	for i, record := range records {
		if err := writeRow(sw, i+2, record, true); err != nil {
			return "", err
		}
	}
	if err := sw.Flush(); err != nil {
		return "", apperrors.NewStorageError("failed to flush sheet", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}
	return fullPath, nil
}

func writeRow(sw *excelize.StreamWriter, row int, cells []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.NewStorageError("invalid cell reference", err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
		if !numeric || c == "" {
			continue
		}
		if n, err := strconv.ParseFloat(c, 64); err == nil {
			values[i] = n
		}
	}
	if err := sw.SetRow(cell, values); err != nil {
		return apperrors.NewStorageError("failed to write row", err).WithContext("row", row)
	}
	return nil
}

package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "wranglecli/internal/errors"
)

// utf8BOM lets spreadsheet tools detect UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tabular is anything with a header row and text records
type Tabular interface {
	Header() []string
	Records() [][]string
}

// Resolver maps an output file name to the path it is written to
type Resolver func(name string) string

// InDir resolves relative names against dir; absolute names are returned as-is
func InDir(dir string) Resolver {
	return func(name string) string {
		if filepath.IsAbs(name) || dir == "" {
			return name
		}
		return filepath.Join(dir, name)
	}
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	resolve Resolver
}

// NewCSVWriter creates a writer placing files where resolve says
func NewCSVWriter(resolve Resolver) *CSVWriter {
	return &CSVWriter{resolve: resolve}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the header and every record to filePath, replacing any
// existing file. It returns the resolved path.
func (w *CSVWriter) WriteCSV(filePath string, data Tabular, options WriteOptions) (string, error) {
	fullPath := w.resolve(filePath)
	records := data.Records()

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return "", apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(data.Header()); err != nil {
		return "", apperrors.NewStorageError("failed to write headers", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewStorageError("failed to flush CSV", err)
	}
	return fullPath, file.Close()
}

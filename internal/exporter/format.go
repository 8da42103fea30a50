package exporter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "wranglecli/internal/errors"
)

// Format is an output file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Extension returns the file extension with its dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormats validates a list of format names, dropping duplicates
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FormatCSV, FormatXLSX:
		default:
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown output format %q", n))
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.NewValidationError("at least one output format is required")
	}
	return out, nil
}

// Exporter writes one table in several formats
type Exporter struct {
	csv  *CSVWriter
	xlsx *XLSXWriter
	bom  bool
}

// NewExporter creates an exporter writing to the paths resolve returns
func NewExporter(resolve Resolver, bom bool) *Exporter {
	return &Exporter{
		csv:  NewCSVWriter(resolve),
		xlsx: NewXLSXWriter(resolve),
		bom:  bom,
	}
}

// Export writes baseName plus each format's extension, one file per format,
// concurrently. The returned paths follow the order of formats.
func (e *Exporter) Export(ctx context.Context, baseName string, data Tabular, formats []Format) ([]string, error) {
	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)

	for i, f := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			switch f {
			case FormatCSV:
				paths[i], err = e.csv.WriteCSV(baseName+f.Extension(), data, WriteOptions{BOMPrefix: e.bom})
			case FormatXLSX:
				paths[i], err = e.xlsx.WriteXLSX(baseName+f.Extension(), DefaultSheet, data)
			default:
				err = apperrors.NewValidationError(fmt.Sprintf("unknown output format %q", f))
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

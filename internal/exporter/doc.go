// Package exporter writes cleaned tables to files.
//
// CSVWriter writes comma separated files with an optional UTF-8 BOM for Excel
// compatibility. XLSXWriter writes single-sheet workbooks with excelize.
// Exporter writes the same table in several formats at once.
//
// Example usage:
//
//	formats, err := exporter.ParseFormats([]string{"csv", "xlsx"})
//	if err != nil {
//		return err
//	}
//	paths, err := exporter.NewExporter(exporter.InDir("data/reports"), true).
//		Export(ctx, "zillow_clean", table, formats)
package exporter

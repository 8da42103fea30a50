package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wranglecli/internal/dataprocessing"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/output"
	"wranglecli/internal/source"
)

func newZillowCmd(a *app) *cobra.Command {
	var (
		from            string
		input           string
		name            string
		columnThreshold float64
		rowThreshold    float64
		referenceYear   int
	)

	cmd := &cobra.Command{
		Use:   "zillow",
		Short: "Acquire and clean the 2017 zillow property data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := infrastructure.WithComponent(a.logger, "zillow")

			opts := dataprocessing.PropertyOptionsFromConfig(a.cfg.Pipeline)
			if cmd.Flags().Changed("column-threshold") {
				opts.ColumnThreshold = columnThreshold
			}
			if cmd.Flags().Changed("row-threshold") {
				opts.RowThreshold = rowThreshold
			}
			if cmd.Flags().Changed("reference-year") {
				opts.ReferenceYear = referenceYear
			}

			var raw *frame.Table
			switch from {
			case sourceDB:
				src, err := source.Open(ctx, a.cfg.Database, a.cfg.Database.PropertiesName)
				if err != nil {
					return err
				}
				defer src.Close()
				if raw, err = dataprocessing.AcquireProperties(ctx, src); err != nil {
					return err
				}
			case sourceFile:
				var err error
				if raw, err = dataprocessing.LoadPropertyCSV(ctx, input); err != nil {
					return err
				}
			default:
				return apperrors.NewValidationError(fmt.Sprintf("unknown source %q: use %s or %s", from, sourceDB, sourceFile))
			}

			clean, reports, err := dataprocessing.CleanProperties(ctx, raw, opts)
			if err != nil {
				return err
			}
			records, err := dataprocessing.PropertyRecordsFromTable(clean)
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "properties cleaned",
				slog.Int("rows_in", raw.Len()),
				slog.Int("rows_out", len(records)))

			paths, err := a.export(ctx, name, records)
			if err != nil {
				return err
			}
			return a.renderer.Render(output.Summary{
				Pipeline: "zillow",
				RunID:    infrastructure.GetTraceID(ctx),
				Rows:     len(records),
				Columns:  len(records.Header()),
				Stages:   reports,
				Outputs:  paths,
			})
		},
	}

	defaults := dataprocessing.DefaultPropertyOptions()
	cmd.Flags().StringVar(&from, "source", sourceDB, "where to read properties from: db or file")
	cmd.Flags().StringVarP(&input, "input", "i", dataprocessing.DefaultPropertyCache, "CSV copy of the properties join for --source file")
	cmd.Flags().StringVar(&name, "name", "zillow_clean", "output file name without extension")
	cmd.Flags().Float64Var(&columnThreshold, "column-threshold", defaults.ColumnThreshold, "tolerated share of nulls per column (overrides pipeline.column_threshold)")
	cmd.Flags().Float64Var(&rowThreshold, "row-threshold", defaults.RowThreshold, "tolerated share of nulls per row (overrides pipeline.row_threshold)")
	cmd.Flags().IntVar(&referenceYear, "reference-year", defaults.ReferenceYear, "year home_age is measured against (overrides pipeline.reference_year)")
	return cmd
}

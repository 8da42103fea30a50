package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"wranglecli/internal/dataprocessing"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/output"
)

func newBoundsCmd(a *app) *cobra.Command {
	var (
		column     string
		multiplier float64
	)

	cmd := &cobra.Command{
		Use:   "bounds <csv>",
		Short: "Print the IQR outlier fence of a numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tbl, err := dataprocessing.LoadCSV(args[0])
			if err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "table loaded",
				slog.String("path", args[0]),
				slog.Int("rows", tbl.Len()),
				slog.Int("columns", tbl.Width()))
			values, err := dataprocessing.NumericColumn(tbl, column)
			if err != nil {
				return err
			}
			b, err := dataprocessing.ComputeBounds(values, multiplier)
			if err != nil {
				return err
			}
			outside, err := dataprocessing.CountOutside(tbl, column, b)
			if err != nil {
				return err
			}

			return a.renderer.Render(output.Summary{
				Pipeline: "bounds",
				RunID:    infrastructure.GetTraceID(ctx),
				Rows:     tbl.Len(),
				Columns:  tbl.Width(),
				Bounds: &output.BoundsSummary{
					Column:     column,
					Multiplier: multiplier,
					Bounds:     b,
					Values:     len(values),
					Outside:    outside,
				},
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "numeric column to fence")
	cmd.Flags().Float64VarP(&multiplier, "multiplier", "m", dataprocessing.DefaultIQRMultiplier, "IQR multiplier")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

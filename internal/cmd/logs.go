package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wranglecli/internal/dataprocessing"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/exporter"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/output"
	"wranglecli/internal/source"
)

const (
	sourceFile = "file"
	sourceDB   = "db"
)

func newLogsCmd(a *app) *cobra.Command {
	var (
		from  string
		input string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Load the curriculum access log and write it as a clean table",
		Long: `With --source file the space separated access log is parsed and sorted by
timestamp. With --source db the logs are joined to their cohorts and normalized
with weekday, month and program labels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := infrastructure.WithComponent(a.logger, "logs")

			var (
				data    exporter.Tabular
				columns int
				rows    int
				reports []dataprocessing.StageReport
			)

			switch from {
			case sourceFile:
				records, err := dataprocessing.LoadLogFile(ctx, input)
				if err != nil {
					return err
				}
				data, rows, columns = records, len(records), len(records.Header())

			case sourceDB:
				src, err := source.Open(ctx, a.cfg.Database, a.cfg.Database.LogsName)
				if err != nil {
					return err
				}
				defer src.Close()

				raw, err := dataprocessing.LoadLogsFromSource(ctx, src)
				if err != nil {
					return err
				}
				events, stageReports, err := dataprocessing.NormalizeLogs(ctx, raw)
				if err != nil {
					return err
				}
				data, rows, columns, reports = events, len(events), len(events.Header()), stageReports

			default:
				return apperrors.NewValidationError(fmt.Sprintf("unknown source %q: use %s or %s", from, sourceFile, sourceDB))
			}

			logger.InfoContext(ctx, "logs loaded", slog.String("source", from), slog.Int("rows", rows))

			paths, err := a.export(ctx, name, data)
			if err != nil {
				return err
			}
			return a.renderer.Render(output.Summary{
				Pipeline: "logs",
				RunID:    infrastructure.GetTraceID(ctx),
				Rows:     rows,
				Columns:  columns,
				Stages:   reports,
				Outputs:  paths,
			})
		},
	}

	cmd.Flags().StringVar(&from, "source", sourceFile, "where to read logs from: file or db")
	cmd.Flags().StringVarP(&input, "input", "i", dataprocessing.DefaultLogFile, "access log path for --source file")
	cmd.Flags().StringVar(&name, "name", "curriculum_logs", "output file name without extension")
	return cmd
}

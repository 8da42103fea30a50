// Package cmd implements the wrangle command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/exporter"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/output"
	"wranglecli/pkg/contracts"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	cfgFile   string
	outputDir string
	formats   []string
	bom       bool
	report    string

	stdout    io.Writer
	cfg       *config.Config
	logger    *slog.Logger
	otel      *infrastructure.OTelProviders
	traceFile *os.File
	exportFmt []exporter.Format
	renderer  output.Renderer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wrangle",
		Short: "wrangle acquires and cleans the curriculum log and zillow data sets",
		Long: `wrangle pulls raw rows from MySQL or a flat file, cleans them and writes an
analysis-ready table.

Examples:
  wrangle logs --input anonymized-curriculum-access.txt
  wrangle logs --source db --format csv,xlsx
  wrangle zillow --source file --input zillow.csv
  wrangle bounds data/reports/zillow_clean.csv --column home_value`,
		Version:           contracts.VersionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: wrangle.yaml or configs/wrangle.yaml)")
	flags.StringVarP(&a.outputDir, "output-dir", "o", "", "directory for output files (overrides paths.output_dir)")
	flags.StringSliceVarP(&a.formats, "format", "f", []string{"csv"}, "output formats: csv, xlsx")
	flags.BoolVar(&a.bom, "bom", false, "prefix CSV output with a UTF-8 BOM")
	flags.StringVar(&a.report, "report", "text", "summary format: text, json")

	root.AddCommand(newLogsCmd(a), newZillowCmd(a), newBoundsCmd(a))
	return root
}

// setup loads configuration and starts logging and telemetry
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.outputDir != "" {
		cfg.Paths.OutputDir = a.outputDir
	}
	a.cfg = cfg

	a.exportFmt, err = exporter.ParseFormats(a.formats)
	if err != nil {
		return err
	}
	a.renderer, err = output.NewRenderer(a.report, a.stdout)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = cfg.Telemetry.EnableTracing
	otelCfg.SampleRatio = cfg.Telemetry.SampleRatio
	if cfg.Telemetry.EnableTracing {
		otelCfg.TraceWriter = os.Stderr
		if cfg.Telemetry.TraceFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Telemetry.TraceFile), 0755); err != nil {
				return fmt.Errorf("failed to create trace directory: %w", err)
			}
			f, err := os.Create(cfg.Telemetry.TraceFile)
			if err != nil {
				return fmt.Errorf("failed to create trace file: %w", err)
			}
			a.traceFile = f
			otelCfg.TraceWriter = f
		}
	}
	a.otel, err = infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return err
	}

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	cmd.SetContext(ctx)

	logger.InfoContext(ctx, "run started",
		slog.String("command", cmd.Name()),
		slog.String("output_dir", cfg.Paths.OutputDir))
	return nil
}

// close flushes telemetry and releases files; it is safe after a failed setup
func (a *app) close(ctx context.Context) {
	if a.otel != nil {
		if a.cfg != nil && a.cfg.Telemetry.MetricsFile != "" {
			if err := a.otel.WriteMetrics(a.cfg.Telemetry.MetricsFile); err != nil {
				a.logger.WarnContext(ctx, "failed to write metrics", slog.String("error", err.Error()))
			}
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.otel.Shutdown(shutdownCtx); err != nil {
			a.logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	if a.traceFile != nil {
		a.traceFile.Close()
	}
	infrastructure.CloseLogFile()
}

// export writes data in every requested format and returns the file paths
func (a *app) export(ctx context.Context, name string, data exporter.Tabular) ([]string, error) {
	paths, err := exporter.NewExporter(a.cfg.OutputPath, a.bom).Export(ctx, name, data, a.exportFmt)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		a.logger.InfoContext(ctx, "output written", slog.String("path", p))
	}
	return paths, nil
}

// run executes one command line and returns its error
func run(ctx context.Context, args []string, stdout io.Writer) error {
	a := &app{stdout: stdout}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)

	err := root.ExecuteContext(ctx)
	if err != nil {
		infrastructure.GetLogger().ErrorContext(ctx, "run failed", apperrors.LogAttrs(err)...)
	}
	a.close(ctx)
	return err
}

// Execute runs the command line of the process and exits with the code
// matching the error type on failure
func Execute() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitCode(err))
	}
}

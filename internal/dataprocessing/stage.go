package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"wranglecli/internal/frame"
	"wranglecli/internal/infrastructure"
)

// StageReport records the shape of the table around one cleaning stage
type StageReport struct {
	Name       string        `json:"name"`
	RowsIn     int           `json:"rows_in"`
	RowsOut    int           `json:"rows_out"`
	ColumnsIn  int           `json:"columns_in"`
	ColumnsOut int           `json:"columns_out"`
	Duration   time.Duration `json:"duration"`
}

// RowsDropped returns how many rows the stage removed
func (r StageReport) RowsDropped() int { return r.RowsIn - r.RowsOut }

// ColumnsDropped returns how many columns the stage removed; derived columns
// make it negative
func (r StageReport) ColumnsDropped() int { return r.ColumnsIn - r.ColumnsOut }

// stageFunc transforms the table of the previous stage
type stageFunc func(ctx context.Context, t *frame.Table) (*frame.Table, error)

type stage struct {
	name string
	run  stageFunc
}

// stageRunner applies stages in order, tracing and measuring each one
type stageRunner struct {
	pipeline string
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

func newStageRunner(pipeline string) *stageRunner {
	logger := infrastructure.WithComponent(infrastructure.GetLogger(), pipeline)
	metrics, err := infrastructure.NewPipelineMetrics(otel.Meter(infrastructure.InstrumentationName))
	if err != nil {
		logger.Warn("stage metrics unavailable", slog.String("error", err.Error()))
	}
	return &stageRunner{
		pipeline: pipeline,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		metrics:  metrics,
		logger:   logger,
	}
}

// run executes every stage exactly once, in order. The first failing stage
// aborts the run; the reports of the stages that completed are returned.
func (r *stageRunner) run(ctx context.Context, t *frame.Table, stages []stage) (*frame.Table, []StageReport, error) {
	reports := make([]StageReport, 0, len(stages))
	for _, s := range stages {
		out, report, err := r.runStage(ctx, t, s)
		if err != nil {
			return nil, reports, err
		}
		reports = append(reports, report)
		t = out
	}
	return t, reports, nil
}

func (r *stageRunner) runStage(ctx context.Context, t *frame.Table, s stage) (*frame.Table, StageReport, error) {
	ctx, span := r.tracer.Start(ctx, r.pipeline+"."+s.name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline", r.pipeline),
			attribute.String("stage", s.name),
			attribute.Int("rows_in", t.Len()),
			attribute.Int("columns_in", t.Width()),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(
		attribute.String("pipeline", r.pipeline),
		attribute.String("stage", s.name),
	)

	report := StageReport{Name: s.name, RowsIn: t.Len(), ColumnsIn: t.Width()}
	start := time.Now()
	out, err := s.run(ctx, t)
	report.Duration = time.Since(start)

	if r.metrics != nil {
		r.metrics.StageRuns.Add(ctx, 1, attrs)
		r.metrics.StageDuration.Record(ctx, report.Duration.Seconds(), attrs)
	}

	if err != nil {
		infrastructure.RecordError(ctx, err)
		if r.metrics != nil {
			r.metrics.StageErrors.Add(ctx, 1, attrs)
		}
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "stage failed",
			slog.String("stage", s.name))
		return nil, report, err
	}

	report.RowsOut = out.Len()
	report.ColumnsOut = out.Width()

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"rows_out":    report.RowsOut,
		"columns_out": report.ColumnsOut,
	})
	if dropped := report.RowsDropped(); dropped > 0 && r.metrics != nil {
		r.metrics.RowsDropped.Add(ctx, int64(dropped), attrs)
	}

	r.logger.DebugContext(ctx, "stage complete",
		slog.String("stage", s.name),
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("columns_in", report.ColumnsIn),
		slog.Int("columns_out", report.ColumnsOut),
		slog.Duration("duration", report.Duration))

	return out, report, nil
}

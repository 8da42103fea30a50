package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
)

// process logger state, guarded by logMu
var (
	logMu   sync.Mutex
	logger  *slog.Logger
	logFile *os.File
)

type traceIDKey struct{}

// InitializeLogger builds the process logger from cfg and makes it the slog
// default. Console output goes to stderr so stdout stays free for reports.
// Once a logger exists later calls return it unchanged.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	logMu.Lock()
	defer logMu.Unlock()

	if logger != nil {
		return logger, nil
	}
	w, f, err := logOutput(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	logFile = f
	logger = newJSONLogger(w, cfg.Level, true)
	slog.SetDefault(logger)
	return logger, nil
}

// GetLogger returns the process logger, or the slog default before
// InitializeLogger has run
func GetLogger() *slog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// NewLogger builds a JSON logger writing to w without touching process state
func NewLogger(w io.Writer, level string) *slog.Logger {
	return newJSONLogger(w, level, false)
}

func newJSONLogger(w io.Writer, level string, source bool) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: source,
		Level:     logLevel(level),
	})
	return slog.New(&traceHandler{Handler: handler})
}

// logOutput returns the writer for the configured output and the log file
// behind it, if any
func logOutput(cfg config.LoggingConfig, console io.Writer) (io.Writer, *os.File, error) {
	mode := strings.ToLower(cfg.Output)
	if mode != "file" && mode != "both" {
		return console, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if mode == "file" {
		return f, f, nil
	}
	return io.MultiWriter(console, f), f, nil
}

// logLevel parses a level name; unknown names log at info
func logLevel(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// traceHandler adds the run's trace_id to every record logged with a context
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// WithTraceID stores the run's trace ID in ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or ""
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// EnsureTraceID gives ctx a random trace ID unless it already carries one
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// WithComponent tags records with the emitting pipeline or command
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithError tags records with err, its error type and its context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(apperrors.LogAttrs(err)...)
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting closes the log file and forgets the process logger
func ResetLoggerForTesting() {
	CloseLogFile()
	logMu.Lock()
	logger = nil
	logMu.Unlock()
}
